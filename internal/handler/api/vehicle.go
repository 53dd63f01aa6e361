package api

import (
	"net/http"
	"strconv"
	"time"

	"rental-engine/internal/domain/interval"
	reqdto "rental-engine/internal/handler/dto/request"
	resdto "rental-engine/internal/handler/dto/response"
	"rental-engine/internal/handler/httperr"
	"rental-engine/internal/handler/middleware"
	"rental-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	availability queries.AvailabilityQueries
	quotes       queries.QuoteQueries
}

func NewVehicleHandler(availability queries.AvailabilityQueries, quotes queries.QuoteQueries) *VehicleHandler {
	return &VehicleHandler{availability: availability, quotes: quotes}
}

// @Summary Vehicle availability
// @Description Day-by-day calendar of booked dates and the next free date
// @Tags vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param from query string false "First day, YYYY-MM-DD (default today)"
// @Param days query int false "Number of days (default 90)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/vehicles/{id}/availability [get]
func (h *VehicleHandler) Availability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var from *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := interval.ParseDate(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from date", nil)
			return
		}
		from = &t
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid days", nil)
			return
		}
		days = n
	}

	view, err := h.availability.Calendar(c.Request.Context(), id, from, days)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Quote
// @Description Price a prospective booking. Authenticated renters get their referral credit applied.
// @Tags vehicles
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body reqdto.QuoteRequest true "Selection"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/vehicles/{id}/quote [post]
func (h *VehicleHandler) Quote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}

	renterID := uuid.Nil
	if actor, ok := middleware.GetActor(c); ok {
		renterID = actor.ID
	}

	priced, err := h.quotes.Quote(c.Request.Context(), id, renterID, in)
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPriced(priced))
}
