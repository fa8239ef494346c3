package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zapshift/internal/domain"
	"zapshift/internal/middleware"
	"zapshift/internal/service"
)

// RiderHandler handles HTTP requests for riders.
type RiderHandler struct {
	riderService *service.RiderService
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(riderService *service.RiderService) *RiderHandler {
	return &RiderHandler{riderService: riderService}
}

// ApplyRequest is the HTTP request body for a rider application.
type ApplyRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	District string `json:"district"`
}

// RiderResponse is the HTTP response for rider data.
type RiderResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	District   string `json:"district"`
	Status     string `json:"status"`
	WorkStatus string `json:"work_status"`
}

func toRiderResponse(rider *domain.Rider) RiderResponse {
	return RiderResponse{
		ID:         rider.ID,
		Name:       rider.Name,
		Email:      rider.Email,
		Phone:      rider.Phone,
		District:   rider.District,
		Status:     string(rider.Status),
		WorkStatus: string(rider.WorkStatus),
	}
}

// Apply handles POST /v1/riders/apply
func (h *RiderHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rider, err := h.riderService.Apply(c.Request.Context(), service.ApplyRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		District: req.District,
		Caller:   middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRiderResponse(rider))
}

// ApproveRequest is the HTTP request body for a rider approval decision.
type ApproveRequest struct {
	Status string `json:"status"`
}

// Approve handles PATCH /v1/riders/:id/approve
func (h *RiderHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rider, err := h.riderService.Approve(c.Request.Context(), service.ApproveRequest{
		RiderID: c.Param("id"),
		Status:  domain.RiderStatus(req.Status),
		Caller:  middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRiderResponse(rider))
}

// ListPending handles GET /v1/riders/pending
func (h *RiderHandler) ListPending(c *gin.Context) {
	riders, err := h.riderService.ListPending(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondRiders(c, riders)
}

// ListAvailable handles GET /v1/riders/available?district=
func (h *RiderHandler) ListAvailable(c *gin.Context) {
	riders, err := h.riderService.ListAvailable(c.Request.Context(), c.Query("district"), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondRiders(c, riders)
}

func (h *RiderHandler) respondRiders(c *gin.Context, riders []*domain.Rider) {
	response := make([]RiderResponse, 0, len(riders))
	for _, rider := range riders {
		response = append(response, toRiderResponse(rider))
	}
	respondJSON(c, http.StatusOK, response)
}
