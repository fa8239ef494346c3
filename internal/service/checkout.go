package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeCheckout talks to the Stripe Checkout REST API. Stripe takes
// form-encoded requests and answers JSON.
type StripeCheckout struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
}

// NewStripeCheckout creates a Stripe-backed CheckoutProvider.
func NewStripeCheckout(secretKey, successURL, cancelURL string) *StripeCheckout {
	return &StripeCheckout{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.stripe.com/v1",
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// stripeSession is the subset of Stripe's checkout session object the
// reconciler needs.
type stripeSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	CustomerInfo  struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
}

// CreateSession opens a checkout session. Success and cancel URLs get
// the session id templated in so the success page can trigger
// reconciliation.
func (c *StripeCheckout) CreateSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", req.CustomerEmail)
	form.Set("success_url", c.successURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	form.Set("metadata[parcelId]", req.ParcelID)
	form.Set("metadata[trackingId]", req.TrackingID)

	return c.do(ctx, http.MethodPost, "/checkout/sessions", form)
}

// RetrieveSession fetches a session by id.
func (c *StripeCheckout) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	return c.do(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil)
}

func (c *StripeCheckout) do(ctx context.Context, method, path string, form url.Values) (*CheckoutSession, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe returned %s", resp.Status)
	}

	var raw stripeSession
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	email := raw.CustomerEmail
	if email == "" {
		email = raw.CustomerInfo.Email
	}

	return &CheckoutSession{
		ID:              raw.ID,
		URL:             raw.URL,
		PaymentStatus:   raw.PaymentStatus,
		PaymentIntentID: raw.PaymentIntent,
		AmountTotal:     raw.AmountTotal,
		Currency:        raw.Currency,
		CustomerEmail:   email,
		ParcelID:        raw.Metadata["parcelId"],
		TrackingID:      raw.Metadata["trackingId"],
	}, nil
}
