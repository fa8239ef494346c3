package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zapshift/internal/service"
)

// TrackingHandler handles HTTP requests for the public tracking log.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// TrackingEventResponse is one entry of a parcel's status log.
type TrackingEventResponse struct {
	Status    string `json:"status"`
	Detail    string `json:"detail"`
	Timestamp string `json:"timestamp"`
}

// History handles GET /v1/tracking/:trackingId. An unknown tracking id
// yields an empty log, not a 404.
func (h *TrackingHandler) History(c *gin.Context) {
	events, err := h.trackingService.History(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TrackingEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, TrackingEventResponse{
			Status:    event.Status,
			Detail:    event.Detail,
			Timestamp: event.CreatedAt.Format(time.RFC3339),
		})
	}

	respondJSON(c, http.StatusOK, response)
}
