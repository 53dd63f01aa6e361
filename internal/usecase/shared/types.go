package shared

import (
	"time"

	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

type InspectionRecord struct {
	BookingID     uuid.UUID
	Kind          inspection.Kind
	FuelLevel     *inspection.FuelLevel
	Mileage       *int
	Notes         string
	MissingLiters *int
	FuelFee       *pricing.Money
	InspectorID   uuid.UUID
}

type LicenseResolution struct {
	Status     license.Status
	Confidence *int
	Concerns   []string
	ResolvedAt time.Time
}

// Notification job kinds and topics written to the outbox.
const (
	JobKindEmail = "email"
	JobKindEvent = "event"

	TopicBookingCreated   = "booking_created"
	TopicFuelFeeApplied   = "fuel_fee_applied"
	TopicLicenseSubmitted = "license_submitted"
	TopicLicenseResolved  = "license_resolved"
)

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
}

// EmailMessage is the payload of an email outbox job.
type EmailMessage struct {
	To      string `json:"to"`
	ToName  string `json:"to_name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Event is the payload of an event outbox job. AggregateID keys the message
// so events of one booking stay ordered.
type Event struct {
	Type        string         `json:"type"`
	AggregateID uuid.UUID      `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Data        map[string]any `json:"data,omitempty"`
}
