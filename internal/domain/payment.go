package domain

import "time"

// Payment represents a confirmed checkout payment for a parcel.
// TransactionID is the checkout provider's payment-intent identifier
// and is unique: reconciling the same session twice must not create a
// second record.
type Payment struct {
	ID            string
	ParcelID      string
	TrackingID    string
	Amount        float64
	Currency      string
	CustomerEmail string
	TransactionID string
	Status        PaymentStatus
	PaidAt        time.Time
}
