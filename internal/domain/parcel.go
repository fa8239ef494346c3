package domain

import "time"

// DeliveryStatus represents a parcel's position in the fulfillment lifecycle.
// The string values are the public wire values and must not change.
type DeliveryStatus string

const (
	DeliveryStatusCreated       DeliveryStatus = "created"
	DeliveryStatusPendingPickup DeliveryStatus = "pending_pickup"
	DeliveryStatusRiderAssigned DeliveryStatus = "rider_assigned"
	DeliveryStatusInDelivery    DeliveryStatus = "in_delivery"
	DeliveryStatusDelivered     DeliveryStatus = "Parcel_delivered"
)

// PaymentStatus represents whether a parcel's booking has been paid for.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// Parcel represents a parcel booking in the system.
type Parcel struct {
	ID             string
	Title          string
	SenderEmail    string
	ReceiverEmail  string
	SenderDistrict string
	ReceiverRegion string
	Cost           float64
	TrackingID     string
	DeliveryStatus DeliveryStatus
	PaymentStatus  PaymentStatus
	RiderID        string
	RiderName      string
	RiderEmail     string
	CreatedAt      time.Time
}

// legalTransitions is the delivery lifecycle state machine.
// pending_pickup appears as a target of both rider_assigned and
// in_delivery because a rider rejection reverts the parcel.
var legalTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusCreated:       {DeliveryStatusPendingPickup},
	DeliveryStatusPendingPickup: {DeliveryStatusRiderAssigned},
	DeliveryStatusRiderAssigned: {DeliveryStatusInDelivery, DeliveryStatusPendingPickup},
	DeliveryStatusInDelivery:    {DeliveryStatusDelivered, DeliveryStatusPendingPickup},
}

// CanTransition reports whether moving a parcel from one delivery
// status to another is legal.
func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Active reports whether the parcel is currently occupying a rider,
// i.e. assigned or in delivery but not yet delivered or reverted.
func (p *Parcel) Active() bool {
	return p.DeliveryStatus == DeliveryStatusRiderAssigned || p.DeliveryStatus == DeliveryStatusInDelivery
}
