package errs

import "errors"

// Sentinel errors shared by the usecase layers
var (
	// Vehicle errors
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle not available")

	// Booking errors
	ErrBookingNotFound    = errors.New("booking not found")
	ErrPeriodUnavailable  = errors.New("period no longer available")
	ErrDuplicateBooking   = errors.New("duplicate booking request")
	ErrBookingInvalid     = errors.New("invalid booking request")
	ErrInspectionNotFound = errors.New("inspection not found")

	// License errors
	ErrLicenseNotFound = errors.New("license not found")

	// Session errors
	ErrSessionNotFound = errors.New("booking session not found")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrPaymentProviderFailed   = errors.New("payment provider failed")
	ErrStorageFailed           = errors.New("document storage failed")
)
