package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zapshift/internal/middleware"
	"zapshift/internal/service"
)

// PaymentHandler handles HTTP requests for checkout and reconciliation.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CheckoutRequest is the HTTP request body for starting a checkout.
type CheckoutRequest struct {
	ParcelID string `json:"parcel_id"`
}

// CheckoutResponse carries the provider's redirect URL.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Checkout handles POST /v1/payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	session, err := h.paymentService.CreateCheckout(c.Request.Context(), service.CreateCheckoutRequest{
		ParcelID: req.ParcelID,
		Caller:   middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CheckoutResponse{SessionID: session.ID, URL: session.URL})
}

// ReconcileRequest is the HTTP request body for reconciling a session.
type ReconcileRequest struct {
	SessionID string `json:"session_id"`
}

// ReconcileResponse reports the reconciliation outcome.
type ReconcileResponse struct {
	Status        string  `json:"status"`
	AlreadyExists bool    `json:"already_exists"`
	TrackingID    string  `json:"tracking_id,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}

// Reconcile handles POST /v1/payments/reconcile
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.paymentService.Reconcile(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ReconcileResponse{
		Status:        result.Status,
		AlreadyExists: result.AlreadyExists,
		TrackingID:    result.TrackingID,
		TransactionID: result.TransactionID,
		Amount:        result.Amount,
	})
}

// PaymentRecord is the HTTP response for a stored payment.
type PaymentRecord struct {
	ID            string  `json:"id"`
	ParcelID      string  `json:"parcel_id"`
	TrackingID    string  `json:"tracking_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transaction_id"`
	PaidAt        string  `json:"paid_at"`
}

// History handles GET /v1/payments
func (h *PaymentHandler) History(c *gin.Context) {
	payments, err := h.paymentService.History(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentRecord, 0, len(payments))
	for _, payment := range payments {
		response = append(response, PaymentRecord{
			ID:            payment.ID,
			ParcelID:      payment.ParcelID,
			TrackingID:    payment.TrackingID,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			TransactionID: payment.TransactionID,
			PaidAt:        payment.PaidAt.Format(time.RFC3339),
		})
	}

	respondJSON(c, http.StatusOK, response)
}
