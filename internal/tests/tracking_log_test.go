package tests

import (
	"context"
	"errors"
	"testing"

	"zapshift/internal/service"
)

// ──────────────────────────────────────────────
// TRACKING LOG
// ──────────────────────────────────────────────

func TestTracking_AppendAndHistoryKeepOrder(t *testing.T) {
	t.Parallel()

	repo := NewMockTrackingRepository()
	svc := service.NewTrackingService(repo)
	ctx := context.Background()

	statuses := []string{"Parcel_Created", "pending_pickup", "rider_assigned", "in_delivery", "Parcel_delivered"}
	for _, status := range statuses {
		if _, err := svc.Append(ctx, "BD-0A1B2C3D", status); err != nil {
			t.Fatalf("unexpected error appending %s: %v", status, err)
		}
	}

	events, err := svc.History(ctx, "BD-0A1B2C3D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != len(statuses) {
		t.Fatalf("expected %d events, got %d", len(statuses), len(events))
	}
	for i, status := range statuses {
		if events[i].Status != status {
			t.Errorf("event %d: expected %s, got %s", i, status, events[i].Status)
		}
	}
}

func TestTracking_DetailDerivedFromStatusLabel(t *testing.T) {
	t.Parallel()

	repo := NewMockTrackingRepository()
	svc := service.NewTrackingService(repo)

	cases := []struct {
		status string
		detail string
	}{
		{"pending_pickup", "pending pickup"},
		{"Parcel_delivered", "Parcel delivered"},
		{"in_delivery", "in delivery"},
	}
	for _, tc := range cases {
		event, err := svc.Append(context.Background(), "BD-0A1B2C3D", tc.status)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.Detail != tc.detail {
			t.Errorf("status %q: expected detail %q, got %q", tc.status, tc.detail, event.Detail)
		}
	}
}

func TestTracking_UnknownIDYieldsEmptyHistory(t *testing.T) {
	t.Parallel()

	svc := service.NewTrackingService(NewMockTrackingRepository())

	events, err := svc.History(context.Background(), "BD-FFFFFFFF")
	if err != nil {
		t.Fatalf("unknown tracking id must not error, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty history, got %d events", len(events))
	}
}

func TestTracking_EmptyIDRejected(t *testing.T) {
	t.Parallel()

	svc := service.NewTrackingService(NewMockTrackingRepository())

	if _, err := svc.History(context.Background(), ""); !errors.Is(err, service.ErrInvalidTrackingID) {
		t.Fatalf("expected ErrInvalidTrackingID, got %v", err)
	}
	if _, err := svc.Append(context.Background(), "", "pending_pickup"); !errors.Is(err, service.ErrInvalidTrackingID) {
		t.Fatalf("expected ErrInvalidTrackingID, got %v", err)
	}
}
