package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labbook/internal/booking"
	"labbook/internal/grid"
	"labbook/internal/httperr"
)

// roomGrid renders the weekly occupancy grid for a room. The week query
// parameter names any date inside the wanted week; default is the current one.
func (h *Handler) roomGrid(c *gin.Context) {
	roomID := c.Param("id")
	if _, err := h.refdata.GetRoom(c.Request.Context(), roomID); err != nil {
		httperr.Respond(c, err)
		return
	}

	weekStart := grid.WeekStart(time.Now())
	if w := c.Query("week"); w != "" {
		parsed, err := time.Parse("2006-01-02", w)
		if err != nil {
			httperr.Respond(c, httperr.Validation("week must be YYYY-MM-DD"))
			return
		}
		weekStart = grid.WeekStart(parsed)
	}
	weekEnd := weekStart.AddDate(0, 0, 4)

	slots, err := h.refdata.ListTimeSlots(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	bookings, err := h.bookings.List(c.Request.Context(), booking.Filter{
		RoomID:   roomID,
		Status:   booking.StatusApproved,
		DateFrom: weekStart.Format("2006-01-02"),
		DateTo:   weekEnd.Format("2006-01-02"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	schedules, err := h.schedules.List(c.Request.Context(), roomID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, grid.Build(roomID, weekStart, slots, bookings, schedules))
}
