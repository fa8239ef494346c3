package service

import "errors"

var (
	// ErrUnauthorized is returned when an operation requires a verified caller.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden is returned when the caller lacks the required role or scope.
	ErrForbidden = errors.New("caller not permitted")

	// ErrInvalidParcelID is returned when parcel ID is empty.
	ErrInvalidParcelID = errors.New("invalid parcel id")

	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidTrackingID is returned when tracking ID is empty.
	ErrInvalidTrackingID = errors.New("invalid tracking id")

	// ErrInvalidSessionID is returned when checkout session ID is empty.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrInvalidBooking is returned when a parcel booking is missing
	// required fields or has a non-positive cost.
	ErrInvalidBooking = errors.New("invalid parcel booking")

	// ErrInvalidStatus is returned when a delivery status value is unknown
	// or not settable through a status update.
	ErrInvalidStatus = errors.New("invalid delivery status")

	// ErrInvalidStatusTransition is returned when the requested delivery
	// status is not reachable from the parcel's current status.
	ErrInvalidStatusTransition = errors.New("illegal delivery status transition")

	// ErrInvalidRiderStatus is returned when a rider approval decision is
	// neither Approved nor rejected.
	ErrInvalidRiderStatus = errors.New("invalid rider status")

	// ErrRiderNotApproved is returned when assigning a rider whose
	// application has not been approved.
	ErrRiderNotApproved = errors.New("rider not approved")

	// ErrRiderUnavailable is returned when the rider is already out on a
	// delivery or locked by a concurrent assignment.
	ErrRiderUnavailable = errors.New("rider unavailable")

	// ErrParcelNotAssigned is returned when rejecting a parcel that has no
	// rider assigned.
	ErrParcelNotAssigned = errors.New("parcel has no assigned rider")

	// ErrParcelAlreadyPaid is returned when paying for an already-paid parcel.
	ErrParcelAlreadyPaid = errors.New("parcel already paid")

	// ErrCheckoutUnavailable is returned when the checkout provider cannot
	// be reached or rejects the request.
	ErrCheckoutUnavailable = errors.New("checkout provider unavailable")
)
