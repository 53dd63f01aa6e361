//go:build unit

package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-engine/internal/domain/availability"
	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
	"rental-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	calls   int
	last    workflow.BookingSubmission
	err     error
	release chan struct{}
	entered chan struct{}
}

func (f *fakeCreator) CreateBooking(_ context.Context, s workflow.BookingSubmission) (workflow.CreatedBooking, error) {
	f.calls++
	f.last = s
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return workflow.CreatedBooking{}, f.err
	}
	return workflow.CreatedBooking{BookingID: uuid.New(), TotalPrice: pricing.Major(1000)}, nil
}

type fakeVerifier struct {
	status  license.Status
	uploads []workflow.LicenseUpload
	history []license.License
}

func (f *fakeVerifier) SubmitLicense(_ context.Context, u workflow.LicenseUpload) (license.License, error) {
	f.uploads = append(f.uploads, u)
	return license.License{ID: uuid.New(), RenterID: u.RenterID, Status: f.status, SubmittedAt: builder.Today}, nil
}

func (f *fakeVerifier) LicenseHistory(context.Context, uuid.UUID) ([]license.License, error) {
	return f.history, nil
}

type fakeHandoff struct {
	calls int
}

func (f *fakeHandoff) RedirectToPayment(_ context.Context, id uuid.UUID) (string, error) {
	f.calls++
	return "https://checkout.example.com/" + id.String(), nil
}

type fixture struct {
	b        *builder.BookingBuilder
	creator  *fakeCreator
	verifier *fakeVerifier
	handoff  *fakeHandoff
	licenses []license.License
	index    *availability.Index
}

func newFixture() *fixture {
	return &fixture{
		b:        builder.NewBookingBuilder(),
		creator:  &fakeCreator{},
		verifier: &fakeVerifier{status: license.StatusPending},
		handoff:  &fakeHandoff{},
		licenses: []license.License{{ID: uuid.New(), Status: license.StatusVerified, SubmittedAt: builder.Today.AddDate(0, -1, 0)}},
	}
}

func (f *fixture) machine() *workflow.Machine {
	policy := pricing.DefaultPolicy()
	deps := workflow.Deps{
		Clock:    clock.NewMockClock(builder.Today),
		Pricer:   booking.NewPricer(pricing.NewDeductibleInsurance(policy), policy),
		Bookings: f.creator,
		Licenses: f.verifier,
		Payments: f.handoff,
	}
	return workflow.NewMachine(deps, workflow.Context{
		Vehicle:      f.b.BuildVehicle(),
		Renter:       f.b.BuildRenter(),
		Availability: f.index,
		Licenses:     f.licenses,
	})
}

func fillPeriod(f *fixture) func(*workflow.Draft) {
	return func(d *workflow.Draft) {
		start, end := f.b.StartDate, f.b.EndDate
		d.StartDate = &start
		d.EndDate = &end
		d.Details = f.b.Details
	}
}

func consent(d *workflow.Draft) {
	d.Consents = workflow.Consents{Terms: true, FullValueLiability: true}
}

// advance moves a fresh machine to the Confirmation step.
func advance(t *testing.T, m *workflow.Machine, f *fixture) {
	t.Helper()
	require.NoError(t, m.Edit(fillPeriod(f)))
	require.NoError(t, m.Next(context.Background()))
	require.NoError(t, m.Next(context.Background()))
	require.Equal(t, workflow.StepConfirmation, m.State().Step())
}

func fields(err error) []string {
	var out []string
	for _, fe := range errs.FieldsOf(err) {
		out = append(out, fe.Field)
	}
	return out
}

func TestMachine_PeriodAndIdentity(t *testing.T) {
	t.Run("開始日がなければ進めない", func(t *testing.T) {
		f := newFixture()
		m := f.machine()
		require.NoError(t, m.Edit(func(d *workflow.Draft) { d.Details = f.b.Details }))

		err := m.Next(context.Background())
		require.ErrorIs(t, err, workflow.ErrStepInvalid)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, fields(err), "start_date")
		assert.Equal(t, workflow.StepPeriodAndIdentity, m.State().Step())
	})

	t.Run("予約済み期間と重なると進めない", func(t *testing.T) {
		f := newFixture()
		f.index = availability.NewIndex([]availability.ReservedPeriod{{
			BookingID: uuid.New(),
			Interval:  interval.MustNew(f.b.StartDate.AddDate(0, 0, 1), f.b.EndDate.AddDate(0, 0, 3)),
			Status:    booking.StatusConfirmed,
		}})
		m := f.machine()
		require.NoError(t, m.Edit(fillPeriod(f)))

		err := m.Next(context.Background())
		require.Error(t, err)
		assert.Contains(t, fields(err), "period")
		assert.Equal(t, workflow.StepPeriodAndIdentity, m.State().Step())
	})

	t.Run("返却日に開始する予約とは重ならない", func(t *testing.T) {
		f := newFixture()
		f.index = availability.NewIndex([]availability.ReservedPeriod{{
			BookingID: uuid.New(),
			Interval:  interval.MustNew(f.b.EndDate, f.b.EndDate.AddDate(0, 0, 3)),
			Status:    booking.StatusConfirmed,
		}})
		m := f.machine()
		require.NoError(t, m.Edit(fillPeriod(f)))
		require.NoError(t, m.Next(context.Background()))
		assert.Equal(t, workflow.StepDocuments, m.State().Step())
	})

	t.Run("利用停止と必須項目の不足をまとめて返す", func(t *testing.T) {
		f := newFixture()
		f.b.AsBanned()
		m := f.machine()
		require.NoError(t, m.Edit(func(d *workflow.Draft) {
			fillPeriod(f)(d)
			d.Details.Phone = ""
		}))

		err := m.Next(context.Background())
		require.Error(t, err)
		assert.ElementsMatch(t, []string{"phone", "account"}, fields(err))
	})

	t.Run("週単位は単位数から返却日を導出する", func(t *testing.T) {
		f := newFixture()
		m := f.machine()
		require.NoError(t, m.Edit(func(d *workflow.Draft) {
			fillPeriod(f)(d)
			d.Tier = pricing.TierWeekly
			d.UnitCount = 2
		}))
		require.NoError(t, m.Next(context.Background()))
		require.NoError(t, m.Next(context.Background()))
		require.NoError(t, m.Edit(consent))
		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, f.b.StartDate.AddDate(0, 0, 14), f.creator.last.EndDate)
		assert.Equal(t, 2, f.creator.last.UnitCount)
	})
}

func TestMachine_Documents(t *testing.T) {
	t.Run("最新の申請が却下なら古い承認済みがあってもアップロード必須", func(t *testing.T) {
		f := newFixture()
		f.licenses = []license.License{
			{ID: uuid.New(), Status: license.StatusVerified, SubmittedAt: builder.Today.AddDate(-1, 0, 0)},
			{ID: uuid.New(), Status: license.StatusRejected, SubmittedAt: builder.Today.AddDate(0, 0, -2)},
		}
		m := f.machine()
		require.NoError(t, m.Edit(fillPeriod(f)))
		require.NoError(t, m.Next(context.Background()))

		assert.Equal(t, license.RequireUpload, m.Snapshot().Requirement)
		err := m.Next(context.Background())
		require.Error(t, err)
		assert.ElementsMatch(t, []string{"front_image", "back_image", "license_country"}, fields(err))
		assert.Equal(t, workflow.StepDocuments, m.State().Step())
		assert.Empty(t, f.verifier.uploads)
	})

	t.Run("審査中なら画像なしで進める", func(t *testing.T) {
		f := newFixture()
		f.licenses = []license.License{{ID: uuid.New(), Status: license.StatusPendingManualReview, SubmittedAt: builder.Today}}
		m := f.machine()
		advance(t, m, f)
		assert.Empty(t, f.verifier.uploads)
	})

	t.Run("画像を添付すると審査に提出して進む", func(t *testing.T) {
		f := newFixture()
		f.licenses = nil
		m := f.machine()
		require.NoError(t, m.Edit(fillPeriod(f)))
		require.NoError(t, m.Next(context.Background()))
		require.NoError(t, m.Edit(func(d *workflow.Draft) {
			d.LicenseCountry = "DK"
			d.FrontImage = &workflow.Document{FileName: "front.jpg", Data: []byte{1}}
			d.BackImage = &workflow.Document{FileName: "back.jpg", Data: []byte{2}}
		}))

		require.NoError(t, m.Next(context.Background()))
		assert.Equal(t, workflow.StepConfirmation, m.State().Step())
		require.Len(t, f.verifier.uploads, 1)
		assert.Equal(t, "DK12345678", f.verifier.uploads[0].Number)
		assert.Equal(t, license.AwaitingVerification, m.Snapshot().Requirement)
	})

	t.Run("審査で却下されると留まり画像を破棄する", func(t *testing.T) {
		f := newFixture()
		f.licenses = nil
		f.verifier.status = license.StatusRejected
		m := f.machine()
		require.NoError(t, m.Edit(fillPeriod(f)))
		require.NoError(t, m.Next(context.Background()))
		require.NoError(t, m.Edit(func(d *workflow.Draft) {
			d.LicenseCountry = "DK"
			d.FrontImage = &workflow.Document{Data: []byte{1}}
			d.BackImage = &workflow.Document{Data: []byte{2}}
		}))

		err := m.Next(context.Background())
		require.ErrorIs(t, err, workflow.ErrLicenseRejected)
		snap := m.Snapshot()
		assert.Equal(t, workflow.StepDocuments, snap.State.Step())
		assert.Nil(t, snap.Draft.FrontImage)
		assert.Equal(t, license.RequireUpload, snap.Requirement)
	})
}

func TestMachine_Confirmation(t *testing.T) {
	t.Run("同意がなければ作成しない", func(t *testing.T) {
		f := newFixture()
		m := f.machine()
		advance(t, m, f)

		err := m.Next(context.Background())
		require.Error(t, err)
		assert.ElementsMatch(t, []string{"terms", "full_value_liability"}, fields(err))
		assert.Zero(t, f.creator.calls)
	})

	t.Run("作成に成功すると支払いへ進む", func(t *testing.T) {
		f := newFixture()
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(func(d *workflow.Draft) {
			consent(d)
			d.WithInsurance = true
		}))

		require.NoError(t, m.Next(context.Background()))
		st, ok := m.State().(workflow.Payment)
		require.True(t, ok)
		assert.NotEqual(t, uuid.Nil, st.BookingID())
		assert.Equal(t, 1, f.creator.calls)
		require.NotNil(t, f.creator.last.InsurancePrice)
		assert.Equal(t, pricing.Major(98), *f.creator.last.InsurancePrice)
	})

	t.Run("サーバー側の重複検知では留まり再読込まで再送できない", func(t *testing.T) {
		f := newFixture()
		f.creator.err = errs.Conflict(errors.New("period no longer available"))
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(consent))

		err := m.Next(context.Background())
		require.True(t, errs.IsConflict(err))
		assert.Equal(t, workflow.StepConfirmation, m.State().Step())
		assert.True(t, m.Snapshot().StaleAvailability)

		err = m.Next(context.Background())
		require.ErrorIs(t, err, workflow.ErrStaleAvailability)
		assert.Equal(t, 1, f.creator.calls)

		f.creator.err = nil
		require.NoError(t, m.RefreshAvailability(availability.NewIndex(nil)))
		require.NoError(t, m.Next(context.Background()))
		assert.Equal(t, 2, f.creator.calls)
		assert.Equal(t, workflow.StepPayment, m.State().Step())
	})

	t.Run("予期しない失敗はそのまま返し状態を変えない", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("connection reset")
		f.creator.err = boom
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(consent))

		err := m.Next(context.Background())
		require.ErrorIs(t, err, boom)
		assert.Equal(t, workflow.StepConfirmation, m.State().Step())
		assert.False(t, m.Snapshot().StaleAvailability)
		assert.Equal(t, 1, f.creator.calls)
	})

	t.Run("作成中の二重送信はビジーで拒否", func(t *testing.T) {
		f := newFixture()
		f.creator.release = make(chan struct{})
		f.creator.entered = make(chan struct{})
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(consent))

		done := make(chan error, 1)
		go func() { done <- m.Next(context.Background()) }()
		<-f.creator.entered

		require.ErrorIs(t, m.Next(context.Background()), workflow.ErrBusy)
		require.ErrorIs(t, m.Prev(), workflow.ErrBusy)
		assert.True(t, m.Snapshot().Busy)

		close(f.creator.release)
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("creation call did not return")
		}
		assert.Equal(t, 1, f.creator.calls)
	})
}

func TestMachine_Prev(t *testing.T) {
	t.Run("戻る操作は検証しない", func(t *testing.T) {
		f := newFixture()
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(func(d *workflow.Draft) { d.StartDate = nil }))

		require.NoError(t, m.Prev())
		assert.Equal(t, workflow.StepDocuments, m.State().Step())
		require.NoError(t, m.Prev())
		require.NoError(t, m.Prev())
		assert.Equal(t, workflow.StepPeriodAndIdentity, m.State().Step())
	})

	t.Run("支払いから戻っても予約を再作成しない", func(t *testing.T) {
		f := newFixture()
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(consent))
		require.NoError(t, m.Next(context.Background()))
		first := m.State().(workflow.Payment).BookingID()

		require.NoError(t, m.Prev())
		require.NoError(t, m.Next(context.Background()))
		assert.Equal(t, first, m.State().(workflow.Payment).BookingID())
		assert.Equal(t, 1, f.creator.calls)
	})

	t.Run("作成後に戻っても支払方法以外は変更できない", func(t *testing.T) {
		f := newFixture()
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(consent))
		require.NoError(t, m.Next(context.Background()))
		require.NoError(t, m.Prev())
		before := m.Snapshot().Draft

		err := m.Edit(func(d *workflow.Draft) {
			d.UnitCount = 3
			d.WithInsurance = !d.WithInsurance
		})
		require.ErrorIs(t, err, workflow.ErrBookingFixed)
		assert.True(t, errs.IsConflict(err))
		assert.Equal(t, before, m.Snapshot().Draft)

		cash := payment.MethodCash
		require.NoError(t, m.Edit(func(d *workflow.Draft) { d.PaymentMethod = &cash }))
		require.NotNil(t, m.Snapshot().Draft.PaymentMethod)
		assert.Equal(t, payment.MethodCash, *m.Snapshot().Draft.PaymentMethod)

		require.NoError(t, m.Next(context.Background()))
		assert.Equal(t, workflow.StepPayment, m.State().Step())
		assert.Equal(t, 1, f.creator.calls)
	})
}

func TestMachine_Pay(t *testing.T) {
	toPayment := func(t *testing.T, f *fixture) *workflow.Machine {
		m := f.machine()
		advance(t, m, f)
		require.NoError(t, m.Edit(consent))
		require.NoError(t, m.Next(context.Background()))
		return m
	}

	t.Run("支払方法が制限されている場合は選択必須", func(t *testing.T) {
		f := newFixture()
		f.b.AcceptedPayments = payment.Methods{payment.MethodMobilePay, payment.MethodCard}
		m := toPayment(t, f)

		_, err := m.Pay(context.Background())
		require.Error(t, err)
		assert.Contains(t, fields(err), "payment_method")
	})

	t.Run("カードは決済画面へ引き渡す", func(t *testing.T) {
		f := newFixture()
		m := toPayment(t, f)
		card := payment.MethodCard
		require.NoError(t, m.Edit(func(d *workflow.Draft) { d.PaymentMethod = &card }))

		out, err := m.Pay(context.Background())
		require.NoError(t, err)
		assert.Contains(t, out.RedirectURL, "https://checkout.example.com/")
		assert.Equal(t, 1, f.handoff.calls)

		again, err := m.Pay(context.Background())
		require.NoError(t, err)
		assert.Equal(t, out, again)
		assert.Equal(t, 1, f.handoff.calls)
	})

	t.Run("現金は引き渡し不要", func(t *testing.T) {
		f := newFixture()
		m := toPayment(t, f)
		cash := payment.MethodCash
		require.NoError(t, m.Edit(func(d *workflow.Draft) { d.PaymentMethod = &cash }))

		out, err := m.Pay(context.Background())
		require.NoError(t, err)
		assert.Empty(t, out.RedirectURL)
		assert.Zero(t, f.handoff.calls)
	})

	t.Run("予約作成前は支払えない", func(t *testing.T) {
		f := newFixture()
		_, err := f.machine().Pay(context.Background())
		require.ErrorIs(t, err, workflow.ErrNotAtPayment)
	})
}
