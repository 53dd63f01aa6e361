//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/handler/api"
	resdto "rental-engine/internal/handler/dto/response"
	"rental-engine/internal/handler/middleware"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/pkg/ptr"
	"rental-engine/internal/usecase/queries"
	"rental-engine/internal/usecase/session"
	"rental-engine/tests/common/httptest"
	sessionmock "rental-engine/tests/mock/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SessionHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockService *sessionmock.MockService
	actor       queries.Actor
	sessionID   uuid.UUID
	vehicleID   uuid.UUID
}

func (s *SessionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockService = sessionmock.NewMockService(s.mockCtrl)
	handler := api.NewSessionHandler(s.mockService)

	s.actor = queries.Actor{ID: uuid.New(), Role: user.RoleRenter}
	s.sessionID = uuid.New()
	s.vehicleID = uuid.New()

	g := s.router.Group("/booking-sessions", fakeAuth(&s.actor))
	g.POST("", handler.Start)
	g.GET("/:id", handler.Get)
	g.PATCH("/:id", handler.Update)
	g.POST("/:id/next", handler.Next)
	g.POST("/:id/prev", handler.Prev)
	g.POST("/:id/refresh", handler.Refresh)
	g.POST("/:id/pay", handler.Pay)
}

func (s *SessionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerTestSuite))
}

func (s *SessionHandlerTestSuite) view(state workflow.State) *session.View {
	return &session.View{
		ID:        s.sessionID,
		VehicleID: s.vehicleID,
		ExpiresAt: time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC),
		Snapshot: workflow.Snapshot{
			State:       state,
			Draft:       workflow.NewDraft(),
			Requirement: license.RequireUpload,
		},
	}
}

func (s *SessionHandlerTestSuite) url(suffix string) string {
	return "/booking-sessions/" + s.sessionID.String() + suffix
}

func (s *SessionHandlerTestSuite) TestStart() {
	s.Run("success: 201 Created at the first step", func() {
		s.mockService.EXPECT().Start(gomock.Any(), s.actor.ID, s.vehicleID).
			Return(s.view(workflow.PeriodAndIdentity{}), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/booking-sessions", map[string]any{"vehicle_id": s.vehicleID}, "token")

		var body resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(s.sessionID, body.ID)
		s.Equal("period_and_identity", body.Step)
		s.Equal("daily", body.Draft.Tier)
		s.Equal(1, body.Draft.UnitCount)
	})

	s.Run("error: 400 without vehicle", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/booking-sessions", map[string]any{}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *SessionHandlerTestSuite) TestUpdate() {
	s.Run("success: only present fields are patched", func() {
		start := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
		want := session.DraftPatch{
			StartDate:     &start,
			Tier:          ptr.Of(pricing.TierWeekly),
			UnitCount:     ptr.Of(2),
			Details:       &session.DetailsPatch{FirstName: ptr.Of("Mette")},
			FrontImage:    &workflow.Document{FileName: "front.jpg", ContentType: "image/jpeg", Data: []byte("front")},
			PaymentMethod: ptr.Of(payment.MethodCard),
		}
		s.mockService.EXPECT().Update(gomock.Any(), s.actor.ID, s.sessionID, want).
			Return(s.view(workflow.PeriodAndIdentity{}), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, s.url(""), map[string]any{
			"start_date":     "2024-01-22",
			"tier":           "weekly",
			"unit_count":     2,
			"details":        map[string]any{"first_name": "Mette"},
			"front_image":    map[string]any{"file_name": "front.jpg", "content_type": "image/jpeg", "data": []byte("front")},
			"payment_method": "card",
		}, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 422 on invalid values", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, s.url(""), map[string]any{
			"start_date": "soon",
			"unit_count": 0,
		}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Validation failed")
	})

	s.Run("error: 409 while a step is in flight", func() {
		s.mockService.EXPECT().Update(gomock.Any(), s.actor.ID, s.sessionID, gomock.Any()).
			Return(nil, errs.Conflict(workflow.ErrBusy)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, s.url(""), map[string]any{"with_insurance": true}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, workflow.ErrBusy.Error())
	})
}

func (s *SessionHandlerTestSuite) TestTransitions() {
	s.Run("next: leaving confirmation reports the created booking", func() {
		bookingID := uuid.New()
		v := s.view(workflow.Confirmation{})
		v.Snapshot.Created = &workflow.CreatedBooking{BookingID: bookingID, TotalPrice: pricing.Major(1000)}
		s.mockService.EXPECT().Next(gomock.Any(), s.actor.ID, s.sessionID).Return(v, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url("/next"), nil, "token")

		var body resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().NotNil(body.BookingID)
		s.Equal(bookingID, *body.BookingID)
		s.Equal(1000.0, *body.TotalPrice)
	})

	s.Run("next: incomplete step lists the missing fields", func() {
		s.mockService.EXPECT().Next(gomock.Any(), s.actor.ID, s.sessionID).
			Return(nil, errs.Validation(workflow.ErrStepInvalid, errs.FieldError{Field: "start_date", Message: "is required"})).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url("/next"), nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Validation failed")
		s.Contains(rec.Body.String(), "start_date")
	})

	s.Run("prev", func() {
		s.mockService.EXPECT().Prev(gomock.Any(), s.actor.ID, s.sessionID).Return(s.view(workflow.PeriodAndIdentity{}), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url("/prev"), nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("refresh", func() {
		s.mockService.EXPECT().Refresh(gomock.Any(), s.actor.ID, s.sessionID).Return(s.view(workflow.Documents{}), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url("/refresh"), nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("get: other renters' sessions are not found", func() {
		s.mockService.EXPECT().Get(gomock.Any(), s.actor.ID, s.sessionID).Return(nil, errs.ErrSessionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.url(""), nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "booking session not found")
	})
}

func (s *SessionHandlerTestSuite) TestPay() {
	s.Run("success: card payment returns the redirect", func() {
		card := payment.MethodCard
		v := s.view(workflow.Confirmation{})
		v.Snapshot.Payment = &workflow.PaymentOutcome{Method: &card, RedirectURL: "https://checkout.example.com/pay"}
		s.mockService.EXPECT().Pay(gomock.Any(), s.actor.ID, s.sessionID).Return(v, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url("/pay"), nil, "token")

		var body resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("https://checkout.example.com/pay", body.PaymentRedirectURL)
		s.Equal("card", *body.PaymentMethodChosen)
	})
}
