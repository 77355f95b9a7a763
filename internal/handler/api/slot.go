package api

import (
	"errors"
	"net/http"

	"featured-slots/internal/domain/slot"
	reqdto "featured-slots/internal/handler/dto/request"
	resdto "featured-slots/internal/handler/dto/response"
	"featured-slots/internal/handler/httperr"
	"featured-slots/internal/usecase/commands"
	"featured-slots/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotCommands commands.SlotCommands
	slotQueries  queries.SlotQueries
}

func NewSlotHandler(slotCommands commands.SlotCommands, slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		slotCommands: slotCommands,
		slotQueries:  slotQueries,
	}
}

// @Summary Schedule a featured slot
// @Description Book a featured slot; omit requested_start_at to feature immediately
// @Tags slots
// @Accept json
// @Produce json
// @Param tier path string true "Pool tier (spotlight or promoted)"
// @Param request body reqdto.ScheduleSlotRequest true "Slot request"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /pools/{tier}/slots [post]
func (h *SlotHandler) Schedule(c *gin.Context) {
	tier, ok := h.tierParam(c)
	if !ok {
		return
	}

	var req reqdto.ScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.slotCommands.Schedule(c.Request.Context(), tier, req.ToParams())
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSlotView(view))
}

// @Summary Reschedule a featured slot
// @Tags slots
// @Accept json
// @Produce json
// @Param tier path string true "Pool tier (spotlight or promoted)"
// @Param id path string true "Slot request ID"
// @Param request body reqdto.RescheduleSlotRequest true "New schedule"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /pools/{tier}/slots/{id} [patch]
func (h *SlotHandler) Reschedule(c *gin.Context) {
	tier, ok := h.tierParam(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req reqdto.RescheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.slotCommands.Reschedule(c.Request.Context(), tier, id, req.ToParams())
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Cancel a featured slot
// @Tags slots
// @Produce json
// @Param tier path string true "Pool tier (spotlight or promoted)"
// @Param id path string true "Slot request ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /pools/{tier}/slots/{id} [delete]
func (h *SlotHandler) Cancel(c *gin.Context) {
	tier, ok := h.tierParam(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.slotCommands.Cancel(c.Request.Context(), tier, id); err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List the live queue
// @Description Active, upcoming and recently ended slots with derived windows
// @Tags slots
// @Produce json
// @Param tier path string true "Pool tier (spotlight or promoted)"
// @Success 200 {object} resdto.QueueResponse
// @Failure 400 {object} httperr.Response
// @Router /pools/{tier}/queue [get]
func (h *SlotHandler) Queue(c *gin.Context) {
	tier, ok := h.tierParam(c)
	if !ok {
		return
	}

	view, err := h.slotQueries.Queue(c.Request.Context(), tier)
	if err != nil {
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Queue listing unavailable", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQueueView(view))
}

// @Summary List finished and cancelled slots
// @Tags slots
// @Produce json
// @Param tier path string true "Pool tier (spotlight or promoted)"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Router /pools/{tier}/history [get]
func (h *SlotHandler) History(c *gin.Context) {
	tier, ok := h.tierParam(c)
	if !ok {
		return
	}

	views, err := h.slotQueries.History(c.Request.Context(), tier)
	if err != nil {
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "History listing unavailable", nil)
		return
	}

	resp := make([]*resdto.SlotResponse, len(views))
	for i, v := range views {
		resp[i] = resdto.FromSlotView(v)
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel every scheduled slot in a pool
// @Tags slots
// @Produce json
// @Param tier path string true "Pool tier (spotlight or promoted)"
// @Success 200 {object} resdto.ClearResponse
// @Failure 400 {object} httperr.Response
// @Router /pools/{tier}/slots [delete]
func (h *SlotHandler) ClearScheduled(c *gin.Context) {
	tier, ok := h.tierParam(c)
	if !ok {
		return
	}

	count, err := h.slotCommands.ClearScheduled(c.Request.Context(), tier)
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ClearResponse{Count: count})
}

// @Summary Delete completed and cancelled slots
// @Tags slots
// @Produce json
// @Param tier path string true "Pool tier (spotlight or promoted)"
// @Success 200 {object} resdto.ClearResponse
// @Failure 400 {object} httperr.Response
// @Router /pools/{tier}/history [delete]
func (h *SlotHandler) ClearHistory(c *gin.Context) {
	tier, ok := h.tierParam(c)
	if !ok {
		return
	}

	count, err := h.slotCommands.ClearHistory(c.Request.Context(), tier)
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ClearResponse{Count: count})
}

func (h *SlotHandler) tierParam(c *gin.Context) (slot.Tier, bool) {
	tier, err := slot.ParseTier(c.Param("tier"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown pool tier", gin.H{"tier": c.Param("tier")})
		return "", false
	}
	return tier, true
}

func (h *SlotHandler) idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot request ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *SlotHandler) abortCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Validation failed", nil)
	case errors.Is(err, commands.ErrSlotNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Slot request not found", nil)
	case errors.Is(err, commands.ErrNotSchedulable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Slot request is no longer schedulable", nil)
	case errors.Is(err, commands.ErrConcurrentModification):
		httperr.AbortWithError(c, http.StatusConflict, err, "Concurrent modification, please retry", nil)
	case errors.Is(err, commands.ErrDatabaseOperationFailed):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Storage unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
