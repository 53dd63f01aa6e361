//go:build unit

package commands_test

import (
	"context"
	"database/sql"
	"maps"
	"sync"
	"time"

	"rental-engine/internal/domain/availability"
	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/vehicle"
	"rental-engine/internal/infra"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/usecase/queries"
	"rental-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type storedJob struct {
	Kind    string
	Topic   string
	Payload []byte
}

// fakeStore is an in-memory UnitOfWork. A failing transaction restores the
// state it started from.
type fakeStore struct {
	mu sync.Mutex

	vehicles    map[uuid.UUID]*vehicle.Vehicle
	renters     map[uuid.UUID]*user.Profile
	bookings    map[uuid.UUID]*booking.Booking
	keys        map[string]shared.IdempotencyRecord
	inspections map[string]shared.InspectionRecord
	licenses    map[uuid.UUID]license.License
	jobs        []storedJob

	// overlapping is returned by CountOverlapping in addition to stored bookings.
	overlapping int
	createErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles:    map[uuid.UUID]*vehicle.Vehicle{},
		renters:     map[uuid.UUID]*user.Profile{},
		bookings:    map[uuid.UUID]*booking.Booking{},
		keys:        map[string]shared.IdempotencyRecord{},
		inspections: map[string]shared.InspectionRecord{},
		licenses:    map[uuid.UUID]license.License{},
	}
}

func keyOf(key, userID uuid.UUID) string { return key.String() + "/" + userID.String() }

func notFound(msg string) error { return infra.WrapRepoErr(msg, sql.ErrNoRows) }

func (s *fakeStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	bookings := maps.Clone(s.bookings)
	keys := maps.Clone(s.keys)
	inspections := maps.Clone(s.inspections)
	licenses := maps.Clone(s.licenses)
	jobs := append([]storedJob(nil), s.jobs...)
	s.mu.Unlock()

	if err := fn(ctx, &fakeTx{s: s}); err != nil {
		s.mu.Lock()
		s.bookings, s.keys, s.inspections, s.licenses, s.jobs = bookings, keys, inspections, licenses, jobs
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *fakeStore) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (s *fakeStore) CommandReads() shared.CommandReads { return fakeReads{s: s} }

func (s *fakeStore) jobsByTopic(topic string) []storedJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storedJob
	for _, j := range s.jobs {
		if j.Topic == topic {
			out = append(out, j)
		}
	}
	return out
}

type fakeTx struct{ s *fakeStore }

func (t *fakeTx) Bookings() shared.BookingRepository           { return fakeBookings{s: t.s} }
func (t *fakeTx) Inspections() shared.InspectionRepository     { return fakeInspections{s: t.s} }
func (t *fakeTx) Licenses() shared.LicenseRepository           { return fakeLicenses{s: t.s} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository    { return fakeIdempotency{s: t.s} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return fakeNotifications{s: t.s} }
func (t *fakeTx) Reads() shared.CommandReads                   { return fakeReads{s: t.s} }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type fakeReads struct{ s *fakeStore }

func (r fakeReads) VehicleByID(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, notFound("vehicle not found")
	}
	return v, nil
}

func (r fakeReads) RenterByID(_ context.Context, id uuid.UUID) (*user.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.renters[id]
	if !ok {
		return nil, notFound("user not found")
	}
	return p, nil
}

func (r fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	// reads hand out a copy, like a row loaded from the database
	c := *b
	return &c, nil
}

func (r fakeReads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.keys[keyOf(key, userID)]
	if !ok {
		return nil, notFound("idempotency key not found")
	}
	return &rec, nil
}

type fakeBookings struct{ s *fakeStore }

func (r fakeBookings) LockVehicle(_ context.Context, _ db.DBTX, vehicleID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[vehicleID]; !ok {
		return notFound("vehicle not found")
	}
	return nil
}

func (r fakeBookings) CountOverlapping(_ context.Context, _ db.DBTX, vehicleID uuid.UUID, period interval.DateInterval) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := r.s.overlapping
	for _, b := range r.s.bookings {
		if b.VehicleID() == vehicleID && !b.IsCancelled() && b.Period().Overlaps(period) {
			n++
		}
	}
	return n, nil
}

func (r fakeBookings) Create(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return r.s.createErr
	}
	r.s.bookings[b.ID()] = b
	return nil
}

func (r fakeBookings) UpdateFuelFee(_ context.Context, _ db.DBTX, bookingID uuid.UUID, fee pricing.Money) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[bookingID]
	if !ok {
		return false, notFound("booking not found")
	}
	before := b.FuelFee()
	if err := b.ApplyFuelFee(fee); err != nil {
		return false, err
	}
	after := b.FuelFee()
	if before == nil || after == nil {
		return before != after, nil
	}
	return *before != *after, nil
}

type fakeInspections struct{ s *fakeStore }

func (r fakeInspections) Upsert(_ context.Context, _ db.DBTX, rec shared.InspectionRecord) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inspections[rec.BookingID.String()+"/"+string(rec.Kind)] = rec
	return uuid.NewSHA1(rec.BookingID, []byte(rec.Kind)), nil
}

type fakeLicenses struct{ s *fakeStore }

func (r fakeLicenses) Create(_ context.Context, _ db.DBTX, sub license.Submission, submittedAt time.Time) (license.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l := license.License{
		ID:          uuid.New(),
		RenterID:    sub.RenterID,
		Number:      sub.Number,
		Country:     sub.Country,
		FrontKey:    sub.FrontKey,
		BackKey:     sub.BackKey,
		Status:      license.StatusPending,
		SubmittedAt: submittedAt,
	}
	r.s.licenses[l.ID] = l
	return l, nil
}

func (r fakeLicenses) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, res shared.LicenseResolution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.licenses[id]
	if !ok {
		return notFound("license not found")
	}
	l.Status = res.Status
	if res.Status == license.StatusVerified {
		at := res.ResolvedAt
		l.VerifiedAt = &at
	}
	r.s.licenses[id] = l
	return nil
}

type fakeIdempotency struct{ s *fakeStore }

func (r fakeIdempotency) TryInsert(_ context.Context, _ db.DBTX, key, userID uuid.UUID, _ string, requestHash string, expiresAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := keyOf(key, userID)
	if _, ok := r.s.keys[k]; ok {
		return false, nil
	}
	r.s.keys[k] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r fakeIdempotency) UpdateStatusCompleted(_ context.Context, _ db.DBTX, key, userID uuid.UUID, _ string, bookingID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := keyOf(key, userID)
	rec, ok := r.s.keys[k]
	if !ok {
		return notFound("idempotency key not found")
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultBookingID = &bookingID
	r.s.keys[k] = rec
	return nil
}

func (r fakeIdempotency) Release(_ context.Context, _ db.DBTX, key, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := keyOf(key, userID)
	if rec, ok := r.s.keys[k]; ok && rec.Status == shared.IdempotencyStatusProcessing {
		delete(r.s.keys, k)
	}
	return nil
}

func (r fakeIdempotency) DeleteExpired(_ context.Context, _ db.DBTX, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, rec := range r.s.keys {
		if rec.ExpiresAt.Before(now) {
			delete(r.s.keys, k)
			n++
		}
	}
	return n, nil
}

type fakeNotifications struct{ s *fakeStore }

func (r fakeNotifications) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobs = append(r.s.jobs, storedJob{Kind: kind, Topic: topic, Payload: payload})
	return nil
}

func (r fakeNotifications) ClaimDue(context.Context, db.DBTX, time.Time, int, int) ([]shared.NotificationJob, error) {
	return nil, nil
}

func (r fakeNotifications) MarkSent(context.Context, db.DBTX, uuid.UUID) error { return nil }

func (r fakeNotifications) MarkFailed(context.Context, db.DBTX, uuid.UUID, string, time.Time, int) error {
	return nil
}

// fakeReadStore serves booking and license reads from the same fakeStore.
type fakeReadStore struct{ s *fakeStore }

func (r fakeReadStore) FindView(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	return &queries.BookingView{Booking: b, VehicleName: r.s.vehicles[b.VehicleID()].Name()}, nil
}

func (r fakeReadStore) ReservedPeriods(context.Context, uuid.UUID, time.Time) ([]availability.ReservedPeriod, error) {
	return nil, nil
}

func (r fakeReadStore) HistoryByRenter(_ context.Context, renterID uuid.UUID) ([]license.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []license.License
	for _, l := range r.s.licenses {
		if l.RenterID == renterID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r fakeReadStore) FindByID(_ context.Context, id uuid.UUID) (*license.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.licenses[id]
	if !ok {
		return nil, notFound("license not found")
	}
	return &l, nil
}
