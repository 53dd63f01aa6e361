package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/infra"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	DefaultTTL           = 30 * time.Minute
	DefaultCreateTimeout = 15 * time.Second
)

type Config struct {
	// TTL is extended on every access.
	TTL           time.Duration
	CreateTimeout time.Duration
}

// View is what a client sees of its booking session after each operation.
type View struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	ExpiresAt time.Time
	Snapshot  workflow.Snapshot
	// Quote is nil while the draft cannot be priced yet.
	Quote *booking.Priced
}

// Service keeps booking workflows in memory, one per session, owned by the
// renter that started it. Sessions of other renters read as not found.
type Service interface {
	Start(ctx context.Context, renterID, vehicleID uuid.UUID) (*View, error)
	Get(ctx context.Context, renterID, id uuid.UUID) (*View, error)
	Update(ctx context.Context, renterID, id uuid.UUID, patch DraftPatch) (*View, error)
	Next(ctx context.Context, renterID, id uuid.UUID) (*View, error)
	Prev(ctx context.Context, renterID, id uuid.UUID) (*View, error)
	// Refresh reloads availability and license history.
	Refresh(ctx context.Context, renterID, id uuid.UUID) (*View, error)
	Pay(ctx context.Context, renterID, id uuid.UUID) (*View, error)
	PurgeExpired(now time.Time) int
}

type entry struct {
	renterID  uuid.UUID
	vehicleID uuid.UUID
	machine   *workflow.Machine
	expiresAt time.Time
}

type Deps struct {
	Vehicles     queries.VehicleReadStore
	Users        queries.UserReadStore
	Availability queries.AvailabilityQueries
	Licenses     queries.LicenseQueries

	BookingCommands commands.BookingCommands
	LicenseCommands commands.LicenseCommands
	PaymentCommands commands.PaymentCommands

	Pricer *booking.Pricer
	Clock  clock.Clock
}

type serviceImpl struct {
	deps Deps
	cfg  Config

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

func NewService(deps Deps, cfg Config) Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CreateTimeout <= 0 {
		cfg.CreateTimeout = DefaultCreateTimeout
	}
	return &serviceImpl{
		deps:     deps,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*entry),
	}
}

func (s *serviceImpl) Start(ctx context.Context, renterID, vehicleID uuid.UUID) (*View, error) {
	v, err := s.deps.Vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVehicleNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	renter, err := s.deps.Users.FindProfile(ctx, renterID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Validation(errs.ErrBookingInvalid, errs.FieldError{Field: "account", Message: "is not registered"})
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	index, err := s.deps.Availability.Index(ctx, vehicleID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	history, err := s.deps.Licenses.History(ctx, renterID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	m := workflow.NewMachine(workflow.Deps{
		Clock:    s.deps.Clock,
		Pricer:   s.deps.Pricer,
		Bookings: &bookingCreator{commands: s.deps.BookingCommands, timeout: s.cfg.CreateTimeout},
		Licenses: &licenseVerifier{commands: s.deps.LicenseCommands, queries: s.deps.Licenses},
		Payments: &paymentHandoff{commands: s.deps.PaymentCommands, renterID: renterID},
	}, workflow.Context{
		Vehicle:      v,
		Renter:       renter,
		Availability: index,
		Licenses:     history,
	})

	id := uuid.New()
	e := &entry{
		renterID:  renterID,
		vehicleID: vehicleID,
		machine:   m,
		expiresAt: s.deps.Clock.Now().Add(s.cfg.TTL),
	}

	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()

	slog.Info("booking session started", "session_id", id, "vehicle_id", vehicleID)
	return s.view(id, e), nil
}

func (s *serviceImpl) Get(_ context.Context, renterID, id uuid.UUID) (*View, error) {
	e, err := s.lookup(renterID, id)
	if err != nil {
		return nil, err
	}
	return s.view(id, e), nil
}

func (s *serviceImpl) Update(_ context.Context, renterID, id uuid.UUID, patch DraftPatch) (*View, error) {
	e, err := s.lookup(renterID, id)
	if err != nil {
		return nil, err
	}

	var applyErr error
	if err := e.machine.Edit(func(d *workflow.Draft) {
		applyErr = patch.applyTo(d)
	}); err != nil {
		return nil, err
	}
	if applyErr != nil {
		return nil, errs.Wrap(applyErr, "apply draft patch")
	}
	return s.view(id, e), nil
}

func (s *serviceImpl) Next(ctx context.Context, renterID, id uuid.UUID) (*View, error) {
	e, err := s.lookup(renterID, id)
	if err != nil {
		return nil, err
	}
	if err := e.machine.Next(ctx); err != nil {
		return nil, err
	}
	return s.view(id, e), nil
}

func (s *serviceImpl) Prev(_ context.Context, renterID, id uuid.UUID) (*View, error) {
	e, err := s.lookup(renterID, id)
	if err != nil {
		return nil, err
	}
	if err := e.machine.Prev(); err != nil {
		return nil, err
	}
	return s.view(id, e), nil
}

func (s *serviceImpl) Refresh(ctx context.Context, renterID, id uuid.UUID) (*View, error) {
	e, err := s.lookup(renterID, id)
	if err != nil {
		return nil, err
	}

	index, err := s.deps.Availability.Index(ctx, e.vehicleID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := e.machine.RefreshAvailability(index); err != nil {
		return nil, err
	}
	if err := e.machine.RefreshLicenses(ctx); err != nil {
		return nil, err
	}
	return s.view(id, e), nil
}

func (s *serviceImpl) Pay(ctx context.Context, renterID, id uuid.UUID) (*View, error) {
	e, err := s.lookup(renterID, id)
	if err != nil {
		return nil, err
	}
	if _, err := e.machine.Pay(ctx); err != nil {
		return nil, err
	}
	return s.view(id, e), nil
}

func (s *serviceImpl) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// lookup returns the live session and extends its expiry.
func (s *serviceImpl) lookup(renterID, id uuid.UUID) (*entry, error) {
	now := s.deps.Clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || e.renterID != renterID {
		return nil, errs.ErrSessionNotFound
	}
	if now.After(e.expiresAt) {
		delete(s.sessions, id)
		return nil, errs.ErrSessionNotFound
	}
	e.expiresAt = now.Add(s.cfg.TTL)
	return e, nil
}

func (s *serviceImpl) view(id uuid.UUID, e *entry) *View {
	v := &View{
		ID:        id,
		VehicleID: e.vehicleID,
		Snapshot:  e.machine.Snapshot(),
	}
	s.mu.Lock()
	v.ExpiresAt = e.expiresAt
	s.mu.Unlock()

	if priced, err := e.machine.Quote(); err == nil {
		v.Quote = &priced
	}
	return v
}
