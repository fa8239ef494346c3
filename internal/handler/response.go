package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zapshift/internal/repository"
	"zapshift/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidParcelID),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidTrackingID),
		errors.Is(err, service.ErrInvalidSessionID),
		errors.Is(err, service.ErrInvalidBooking),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRiderStatus):
		return http.StatusBadRequest

	// Lifecycle conflicts
	case errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrRiderNotApproved),
		errors.Is(err, service.ErrRiderUnavailable),
		errors.Is(err, service.ErrParcelNotAssigned),
		errors.Is(err, service.ErrParcelAlreadyPaid):
		return http.StatusConflict

	// Upstream checkout failures
	case errors.Is(err, service.ErrCheckoutUnavailable):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
