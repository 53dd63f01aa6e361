package api

import (
	"net/http"

	reqdto "rental-engine/internal/handler/dto/request"
	resdto "rental-engine/internal/handler/dto/response"
	"rental-engine/internal/handler/httperr"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

type BookingHandler struct {
	bookings    commands.BookingCommands
	inspections commands.InspectionCommands
	payments    commands.PaymentCommands
	q           queries.BookingQueries
}

func NewBookingHandler(
	bookings commands.BookingCommands,
	inspections commands.InspectionCommands,
	payments commands.PaymentCommands,
	q queries.BookingQueries,
) *BookingHandler {
	return &BookingHandler{
		bookings:    bookings,
		inspections: inspections,
		payments:    payments,
		q:           q,
	}
}

// @Summary Create booking
// @Description Create a booking. Retrying with the same Idempotency-Key returns the original booking.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	key, err := idempotencyKey(c)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	sub, err := req.ToSubmission(actor.ID)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}

	result, err := h.bookings.CreateBooking(c.Request.Context(), sub, key)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
		c.Header(headerReplayed, "true")
	}
	c.JSON(status, resdto.FromBookingView(result.Booking))
}

// @Summary Get booking
// @Description Get a booking visible to the caller
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Record inspection
// @Description Record a pickup or return inspection. A return below the pickup fuel level writes a fuel fee to the booking.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RecordInspectionRequest true "Inspection"
// @Success 201 {object} resdto.InspectionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/bookings/{id}/inspections [post]
func (h *BookingHandler) RecordInspection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.RecordInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	in, err := req.ToInput(id, actor)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}

	result, err := h.inspections.RecordInspection(c.Request.Context(), in)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromInspectionResult(result))
}

// @Summary Start checkout
// @Description Hand the renter off to the payment provider for card bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/checkout [post]
func (h *BookingHandler) Checkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.payments.StartCheckout(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutResult(result))
}

func idempotencyKey(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader(headerIdempotencyKey)
	if raw == "" {
		return uuid.Nil, errs.Validation(errs.ErrIdempotencyKeyRequired, errs.FieldError{Field: headerIdempotencyKey, Message: "is required"})
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.Validation(errs.ErrIdempotencyKeyRequired, errs.FieldError{Field: headerIdempotencyKey, Message: "must be a UUID"})
	}
	return key, nil
}
