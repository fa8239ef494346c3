package domain

import "time"

// RiderStatus represents where a rider application stands.
// "Approved" keeps the source system's capitalized wire value.
type RiderStatus string

const (
	RiderStatusPending  RiderStatus = "pending"
	RiderStatusApproved RiderStatus = "Approved"
	RiderStatusRejected RiderStatus = "rejected"
)

// WorkStatus represents a rider's availability for new deliveries.
type WorkStatus string

const (
	WorkStatusAvailable  WorkStatus = "available"
	WorkStatusInDelivery WorkStatus = "in_delivery"
)

// Rider represents a delivery rider in the system.
type Rider struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	District   string
	Status     RiderStatus
	WorkStatus WorkStatus
	CreatedAt  time.Time
}
