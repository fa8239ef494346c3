package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zapshift/internal/domain"
	"zapshift/internal/middleware"
	"zapshift/internal/service"
)

// ParcelHandler handles HTTP requests for parcels.
type ParcelHandler struct {
	parcelService *service.ParcelService
}

// NewParcelHandler creates a new ParcelHandler.
func NewParcelHandler(parcelService *service.ParcelService) *ParcelHandler {
	return &ParcelHandler{parcelService: parcelService}
}

// CreateParcelRequest is the HTTP request body for booking a parcel.
type CreateParcelRequest struct {
	Title          string  `json:"title"`
	SenderEmail    string  `json:"sender_email"`
	ReceiverEmail  string  `json:"receiver_email"`
	SenderDistrict string  `json:"sender_district"`
	ReceiverRegion string  `json:"receiver_region"`
	Cost           float64 `json:"cost"`
}

// ParcelResponse is the HTTP response for parcel data.
type ParcelResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	SenderEmail    string  `json:"sender_email"`
	ReceiverEmail  string  `json:"receiver_email"`
	SenderDistrict string  `json:"sender_district,omitempty"`
	ReceiverRegion string  `json:"receiver_region,omitempty"`
	Cost           float64 `json:"cost"`
	TrackingID     string  `json:"tracking_id"`
	DeliveryStatus string  `json:"delivery_status"`
	PaymentStatus  string  `json:"payment_status"`
	RiderID        string  `json:"rider_id,omitempty"`
	RiderName      string  `json:"rider_name,omitempty"`
	RiderEmail     string  `json:"rider_email,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func toParcelResponse(parcel *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		ID:             parcel.ID,
		Title:          parcel.Title,
		SenderEmail:    parcel.SenderEmail,
		ReceiverEmail:  parcel.ReceiverEmail,
		SenderDistrict: parcel.SenderDistrict,
		ReceiverRegion: parcel.ReceiverRegion,
		Cost:           parcel.Cost,
		TrackingID:     parcel.TrackingID,
		DeliveryStatus: string(parcel.DeliveryStatus),
		PaymentStatus:  string(parcel.PaymentStatus),
		RiderID:        parcel.RiderID,
		RiderName:      parcel.RiderName,
		RiderEmail:     parcel.RiderEmail,
		CreatedAt:      parcel.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /v1/parcels
func (h *ParcelHandler) Create(c *gin.Context) {
	var req CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	parcel, err := h.parcelService.Create(c.Request.Context(), service.CreateParcelRequest{
		Title:          req.Title,
		SenderEmail:    req.SenderEmail,
		ReceiverEmail:  req.ReceiverEmail,
		SenderDistrict: req.SenderDistrict,
		ReceiverRegion: req.ReceiverRegion,
		Cost:           req.Cost,
		Caller:         middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toParcelResponse(parcel))
}

// List handles GET /v1/parcels?email=
func (h *ParcelHandler) List(c *gin.Context) {
	parcels, err := h.parcelService.List(c.Request.Context(), service.ListRequest{
		SenderEmail: c.Query("email"),
		Caller:      middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ParcelResponse, 0, len(parcels))
	for _, parcel := range parcels {
		response = append(response, toParcelResponse(parcel))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/parcels/:id
func (h *ParcelHandler) Get(c *gin.Context) {
	parcel, err := h.parcelService.Get(c.Request.Context(), c.Param("id"), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toParcelResponse(parcel))
}

// Delete handles DELETE /v1/parcels/:id
func (h *ParcelHandler) Delete(c *gin.Context) {
	err := h.parcelService.Delete(c.Request.Context(), c.Param("id"), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignRiderRequest is the HTTP request body for rider assignment.
type AssignRiderRequest struct {
	RiderID string `json:"rider_id"`
}

// AssignRider handles POST /v1/parcels/:id/assign
func (h *ParcelHandler) AssignRider(c *gin.Context) {
	var req AssignRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	parcel, err := h.parcelService.AssignRider(c.Request.Context(), service.AssignRiderRequest{
		ParcelID: c.Param("id"),
		RiderID:  req.RiderID,
		Caller:   middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toParcelResponse(parcel))
}

// UpdateStatusRequest is the HTTP request body for a status update.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/parcels/:id/status
func (h *ParcelHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	parcel, err := h.parcelService.UpdateStatus(c.Request.Context(), service.UpdateStatusRequest{
		ParcelID:  c.Param("id"),
		NewStatus: domain.DeliveryStatus(req.Status),
		Caller:    middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toParcelResponse(parcel))
}

// Reject handles POST /v1/parcels/:id/reject
func (h *ParcelHandler) Reject(c *gin.Context) {
	parcel, err := h.parcelService.Reject(c.Request.Context(), service.RejectRequest{
		ParcelID: c.Param("id"),
		Caller:   middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toParcelResponse(parcel))
}
