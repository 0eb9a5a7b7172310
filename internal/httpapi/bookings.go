package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labbook/internal/auth"
	"labbook/internal/booking"
	"labbook/internal/httperr"
	"labbook/internal/httpmiddleware"
)

func (h *Handler) createBooking(c *gin.Context) {
	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	// Teachers book for themselves; only admins may file on behalf of others.
	claims, _ := auth.ClaimsFrom(c)
	if claims.Role == auth.RoleTeacher {
		if claims.TeacherID == "" {
			httperr.Respond(c, httperr.Forbidden("account is not linked to a teacher record"))
			return
		}
		req.TeacherID = claims.TeacherID
	}
	b, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		respondBookingErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) listBookings(c *gin.Context) {
	f := booking.Filter{
		RoomID:    c.Query("room_id"),
		TeacherID: c.Query("teacher_id"),
		DateFrom:  c.Query("from"),
		DateTo:    c.Query("to"),
	}
	if s := c.Query("status"); s != "" {
		st, err := booking.ParseStatus(s)
		if err != nil {
			respondBookingErr(c, err)
			return
		}
		f.Status = st
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			f.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			f.Offset = parsed
		}
	}
	bs, err := h.bookings.List(c.Request.Context(), f)
	if err != nil {
		respondBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bs})
}

func (h *Handler) getBooking(c *gin.Context) {
	b, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) updateBooking(c *gin.Context) {
	var upd booking.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	b, err := h.bookings.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) transitionBooking(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	to, err := booking.ParseStatus(req.Status)
	if err != nil {
		respondBookingErr(c, err)
		return
	}
	b, err := h.bookings.Transition(c.Request.Context(), c.Param("id"), to)
	if err != nil {
		respondBookingErr(c, err)
		return
	}
	httpmiddleware.BookingDecisions.WithLabelValues(string(to)).Inc()
	c.JSON(http.StatusOK, b)
}

func (h *Handler) deleteBooking(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	if err := h.bookings.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		respondBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) slotOccupancy(c *gin.Context) {
	roomID := c.Param("id")
	date := c.Query("date")
	slotID := c.Query("time_slot_id")
	if date == "" || slotID == "" {
		httperr.Respond(c, httperr.Validation("date and time_slot_id required"))
		return
	}
	occupied, err := h.bookings.IsSlotOccupied(c.Request.Context(), roomID, date, slotID)
	if err != nil {
		respondBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID, "date": date, "time_slot_id": slotID, "occupied": occupied})
}

func respondBookingErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalid), errors.Is(err, booking.ErrBadTransition):
		httperr.Respond(c, httperr.Validation(err.Error()))
	case errors.Is(err, booking.ErrNotOwner):
		httperr.Respond(c, httperr.Forbidden("only admins or the owning teacher may delete a booking"))
	default:
		httperr.Respond(c, err)
	}
}
