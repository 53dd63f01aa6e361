package api

import (
	"context"
	"net/http"

	reqdto "rental-engine/internal/handler/dto/request"
	resdto "rental-engine/internal/handler/dto/response"
	"rental-engine/internal/handler/httperr"
	"rental-engine/internal/usecase/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessions session.Service
}

func NewSessionHandler(sessions session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// @Summary Start booking session
// @Description Start a step-by-step booking for a vehicle
// @Tags booking-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.StartSessionRequest true "Vehicle"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/booking-sessions [post]
func (h *SessionHandler) Start(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req reqdto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.sessions.Start(c.Request.Context(), actor.ID, req.VehicleID)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSessionView(view))
}

// @Summary Get booking session
// @Tags booking-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} httperr.Response
// @Router /api/booking-sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	h.run(c, h.sessions.Get)
}

// @Summary Update booking draft
// @Description Change any subset of the draft. Images are base64 encoded.
// @Tags booking-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.UpdateSessionRequest true "Changed fields"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/booking-sessions/{id} [patch]
func (h *SessionHandler) Update(c *gin.Context) {
	var req reqdto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	h.run(c, func(ctx context.Context, renterID, id uuid.UUID) (*session.View, error) {
		return h.sessions.Update(ctx, renterID, id, patch)
	})
}

// @Summary Advance booking session
// @Description Validate the current step and move forward. Leaving confirmation creates the booking.
// @Tags booking-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/booking-sessions/{id}/next [post]
func (h *SessionHandler) Next(c *gin.Context) {
	h.run(c, h.sessions.Next)
}

// @Summary Go back one step
// @Tags booking-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/booking-sessions/{id}/prev [post]
func (h *SessionHandler) Prev(c *gin.Context) {
	h.run(c, h.sessions.Prev)
}

// @Summary Refresh availability and license status
// @Tags booking-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} httperr.Response
// @Router /api/booking-sessions/{id}/refresh [post]
func (h *SessionHandler) Refresh(c *gin.Context) {
	h.run(c, h.sessions.Refresh)
}

// @Summary Pay
// @Description Finish the session with the chosen payment method. Card payments return a redirect URL.
// @Tags booking-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/booking-sessions/{id}/pay [post]
func (h *SessionHandler) Pay(c *gin.Context) {
	h.run(c, h.sessions.Pay)
}

type sessionOp func(ctx context.Context, renterID, id uuid.UUID) (*session.View, error)

func (h *SessionHandler) run(c *gin.Context, op sessionOp) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	view, err := op(c.Request.Context(), actor.ID, id)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSessionView(view))
}
