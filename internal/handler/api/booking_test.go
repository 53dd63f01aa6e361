//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/handler/api"
	resdto "rental-engine/internal/handler/dto/response"
	"rental-engine/internal/handler/middleware"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/queries"
	"rental-engine/tests/common/builder"
	"rental-engine/tests/common/httptest"
	"rental-engine/tests/common/testutil"
	commandsmock "rental-engine/tests/mock/commands"
	queriesmock "rental-engine/tests/mock/queries"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeAuth authenticates any request carrying an Authorization header as actor.
func fakeAuth(actor *queries.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("actor", *actor)
		c.Next()
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCtrl        *gomock.Controller
	mockBookings    *commandsmock.MockBookingCommands
	mockInspections *commandsmock.MockInspectionCommands
	mockPayments    *commandsmock.MockPaymentCommands
	mockQueries     *queriesmock.MockBookingQueries
	actor           queries.Actor
	b               *builder.BookingBuilder
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBookings = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockInspections = commandsmock.NewMockInspectionCommands(s.mockCtrl)
	s.mockPayments = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	handler := api.NewBookingHandler(s.mockBookings, s.mockInspections, s.mockPayments, s.mockQueries)

	s.b = builder.NewBookingBuilder()
	s.actor = queries.Actor{ID: s.b.RenterID, Role: user.RoleRenter}
	auth := fakeAuth(&s.actor)

	s.router.POST("/bookings", auth, handler.Create)
	s.router.GET("/bookings/:id", auth, handler.Get)
	s.router.POST("/bookings/:id/inspections", auth, handler.RecordInspection)
	s.router.POST("/bookings/:id/checkout", auth, handler.Checkout)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) headers(key string) map[string]string {
	h := map[string]string{"Authorization": "Bearer token"}
	if key != "" {
		h["Idempotency-Key"] = key
	}
	return h
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	reqBody := s.b.BuildCreateRequestDTO()
	bookingID := uuid.New()
	view := &queries.BookingView{Booking: s.b.BuildPersisted(bookingID, pricing.Major(1000)), VehicleName: s.b.VehicleName}
	key := uuid.New()

	s.Run("success: 201 Created with the stored booking", func() {
		s.mockBookings.EXPECT().CreateBooking(gomock.Any(), s.b.BuildSubmission(), key).
			Return(&commands.CreateBookingResult{Booking: view}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/bookings", reqBody, s.headers(key.String()))

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(bookingID, body.ID)
		s.Equal("2024-01-22", body.StartDate)
		s.Equal(1000.0, body.Charges.GrandTotal)
		s.Empty(rec.Header().Get("Idempotent-Replayed"))
	})

	s.Run("success: replay returns 200 and marks the response", func() {
		s.mockBookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), key).
			Return(&commands.CreateBookingResult{Booking: view, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/bookings", reqBody, s.headers(key.String()))

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Idempotent-Replayed": "true"})
	})

	s.Run("success: weekly end date is derived when omitted", func() {
		weekly := builder.NewBookingBuilder().WithTier(pricing.TierWeekly, 2)
		weekly.RenterID = s.b.RenterID
		req := weekly.BuildCreateRequestDTO()
		req.EndDate = ""

		var got workflow.BookingSubmission
		s.mockBookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), key).
			DoAndReturn(func(_ context.Context, sub workflow.BookingSubmission, _ uuid.UUID) (*commands.CreateBookingResult, error) {
				got = sub
				return &commands.CreateBookingResult{Booking: view}, nil
			}).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/bookings", req, s.headers(key.String()))
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
		s.Equal("2024-02-05", interval.FormatDate(got.EndDate))
		s.Equal(2, got.UnitCount)
	})

	s.Run("error: request validation", func() {
		cases := []struct {
			name       string
			headers    map[string]string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "missing idempotency key", headers: s.headers(""), expectCode: http.StatusUnprocessableEntity},
			{name: "malformed idempotency key", headers: s.headers("not-a-uuid"), expectCode: http.StatusUnprocessableEntity},
			{name: "missing vehicle_id", headers: s.headers(key.String()), mutate: testutil.Field("vehicle_id", nil), expectCode: http.StatusBadRequest},
			{name: "bad start_date", headers: s.headers(key.String()), mutate: testutil.Field("start_date", "22/01/2024"), expectCode: http.StatusUnprocessableEntity},
			{name: "unknown tier", headers: s.headers(key.String()), mutate: testutil.Field("tier", "hourly"), expectCode: http.StatusUnprocessableEntity},
			{name: "unknown payment method", headers: s.headers(key.String()), mutate: testutil.Field("payment_method", "crypto"), expectCode: http.StatusUnprocessableEntity},
			{name: "daily without end_date", headers: s.headers(key.String()), mutate: testutil.Field("end_date", ""), expectCode: http.StatusUnprocessableEntity},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody)
				if tc.mutate != nil {
					tc.mutate(body)
				}
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/bookings", body, tc.headers)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/bookings", reqBody, map[string]string{"Idempotency-Key": key.String()})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "vehicle not found", err: errs.Mark(errors.New("no rows"), errs.ErrVehicleNotFound), expectedStatus: http.StatusNotFound, expectedMsg: "vehicle not found"},
			{name: "period taken", err: errs.Conflict(errs.ErrPeriodUnavailable), expectedStatus: http.StatusConflict, expectedMsg: "period no longer available"},
			{name: "key reused with another payload", err: errs.Conflict(errs.ErrDuplicateBooking), expectedStatus: http.StatusConflict, expectedMsg: "duplicate booking request"},
			{name: "key in flight", err: errs.Conflict(errs.ErrIdempotencyInProgress), expectedStatus: http.StatusConflict, expectedMsg: "idempotency in progress"},
			{name: "field errors", err: errs.Validation(errs.ErrBookingInvalid, errs.FieldError{Field: "email", Message: "is invalid"}), expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Validation failed"},
			{name: "unexpected", err: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockBookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), key).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/bookings", reqBody, s.headers(key.String()))
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	bookingID := uuid.New()
	view := &queries.BookingView{Booking: s.b.WithPaymentMethod(payment.MethodCard).BuildPersisted(bookingID, pricing.Major(1000)), VehicleName: s.b.VehicleName}

	s.Run("success: 200 OK", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, bookingID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String(), nil, "token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Toyota Aygo", body.VehicleName)
		s.Require().NotNil(body.PaymentMethod)
		s.Equal("card", *body.PaymentMethod)
	})

	s.Run("error: 400 Bad Request on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/abc", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, bookingID).Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String(), nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "booking not found")
	})
}

// ================================================================================
// TestRecordInspection
// ================================================================================

func (s *BookingHandlerTestSuite) TestRecordInspection() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/inspections"

	s.Run("success: 201 Created with the fuel fee", func() {
		half := inspection.FuelHalf
		mileage := 12000
		want := commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: s.actor,
			Kind:      inspection.KindReturn,
			FuelLevel: &half,
			Mileage:   &mileage,
			Notes:     "scratch on rear bumper",
		}
		inspectionID := uuid.New()
		s.mockInspections.EXPECT().RecordInspection(gomock.Any(), want).
			Return(&commands.InspectionResult{
				InspectionID: inspectionID,
				FuelFee:      &inspection.FuelFee{MissingLiters: 20, BaseFee: pricing.Major(100), LiterFee: pricing.Major(400), Total: pricing.Major(500)},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"kind":       "return",
			"fuel_level": "half",
			"mileage":    12000,
			"notes":      "scratch on rear bumper",
		}, "token")

		var body resdto.InspectionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(inspectionID, body.InspectionID)
		s.Require().NotNil(body.FuelFee)
		s.Equal(500.0, body.FuelFee.Total)
	})

	s.Run("error: 422 on unknown kind or fuel level", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"kind": "midway", "fuel_level": "brim"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Validation failed")
	})

	s.Run("error: 400 when kind is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"fuel_level": "full"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

// ================================================================================
// TestCheckout
// ================================================================================

func (s *BookingHandlerTestSuite) TestCheckout() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/checkout"

	s.Run("success: returns the provider redirect", func() {
		card := payment.MethodCard
		s.mockPayments.EXPECT().StartCheckout(gomock.Any(), s.actor, bookingID).
			Return(&commands.CheckoutResult{BookingID: bookingID, Method: &card, RedirectURL: "https://checkout.example.com/pay"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")

		var body resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("https://checkout.example.com/pay", body.RedirectURL)
	})

	s.Run("error: 502 when the provider fails", func() {
		s.mockPayments.EXPECT().StartCheckout(gomock.Any(), s.actor, bookingID).
			Return(nil, errs.Dependency(errs.Mark(errors.New("timeout"), errs.ErrPaymentProviderFailed))).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "Upstream service unavailable")
	})
}
