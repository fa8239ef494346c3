package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"zapshift/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationParcelBooked     NotificationType = "PARCEL_BOOKED"
	NotificationPaymentConfirmed NotificationType = "PAYMENT_CONFIRMED"
	NotificationRiderAssigned    NotificationType = "RIDER_ASSIGNED"
	NotificationParcelDelivered  NotificationType = "PARCEL_DELIVERED"
	NotificationRiderRejected    NotificationType = "RIDER_REJECTED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	Recipient string
	Title     string
	Message   string
	CreatedAt time.Time
}

// NotificationService delivers lifecycle notifications to senders and
// riders. Delivery is currently a structured log line; the call sites
// are where an email or push client would plug in.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyParcelBooked tells the sender their booking was recorded.
func (s *NotificationService) NotifyParcelBooked(ctx context.Context, parcel *domain.Parcel) error {
	return s.send(ctx, Notification{
		Type:      NotificationParcelBooked,
		Recipient: parcel.SenderEmail,
		Title:     "Parcel Booked",
		Message:   fmt.Sprintf("Your parcel is booked. Track it with %s", parcel.TrackingID),
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentConfirmed tells the sender the booking is paid and
// awaiting pickup.
func (s *NotificationService) NotifyPaymentConfirmed(ctx context.Context, parcel *domain.Parcel, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:      NotificationPaymentConfirmed,
		Recipient: payment.CustomerEmail,
		Title:     "Payment Confirmed",
		Message:   fmt.Sprintf("Payment of %.2f %s received. Parcel %s is awaiting pickup.", payment.Amount, payment.Currency, parcel.TrackingID),
		CreatedAt: time.Now(),
	})
}

// NotifyRiderAssigned tells both parties a rider took the parcel.
func (s *NotificationService) NotifyRiderAssigned(ctx context.Context, parcel *domain.Parcel, rider *domain.Rider) error {
	if err := s.send(ctx, Notification{
		Type:      NotificationRiderAssigned,
		Recipient: parcel.SenderEmail,
		Title:     "Rider Assigned",
		Message:   fmt.Sprintf("Rider %s will deliver parcel %s", rider.Name, parcel.TrackingID),
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}

	return s.send(ctx, Notification{
		Type:      NotificationRiderAssigned,
		Recipient: rider.Email,
		Title:     "New Delivery",
		Message:   fmt.Sprintf("You have been assigned parcel %s", parcel.TrackingID),
		CreatedAt: time.Now(),
	})
}

// NotifyDelivered tells the sender the parcel arrived.
func (s *NotificationService) NotifyDelivered(ctx context.Context, parcel *domain.Parcel) error {
	return s.send(ctx, Notification{
		Type:      NotificationParcelDelivered,
		Recipient: parcel.SenderEmail,
		Title:     "Parcel Delivered",
		Message:   fmt.Sprintf("Parcel %s was delivered", parcel.TrackingID),
		CreatedAt: time.Now(),
	})
}

// NotifyAssignmentRejected tells the sender the parcel went back to
// the pickup queue.
func (s *NotificationService) NotifyAssignmentRejected(ctx context.Context, parcel *domain.Parcel, rider *domain.Rider) error {
	return s.send(ctx, Notification{
		Type:      NotificationRiderRejected,
		Recipient: parcel.SenderEmail,
		Title:     "Delivery Reassignment",
		Message:   fmt.Sprintf("Rider %s declined parcel %s; it is back in the pickup queue", rider.Name, parcel.TrackingID),
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.Recipient, notification.Title, notification.Message)
	return nil
}
