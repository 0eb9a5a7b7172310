package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labbook/internal/httperr"
	"labbook/internal/schedule"
)

type scheduleBody struct {
	Subject      string `json:"subject" binding:"required"`
	DayOfWeek    int    `json:"day_of_week" binding:"required"`
	TimeSlotID   string `json:"time_slot_id" binding:"required"`
	TeacherID    string `json:"teacher_id" binding:"required"`
	RoomID       string `json:"room_id" binding:"required"`
	ClassGroupID string `json:"class_group_id" binding:"required"`
}

func (b scheduleBody) toSchedule(id string) schedule.Schedule {
	return schedule.Schedule{
		ID:           id,
		Subject:      b.Subject,
		DayOfWeek:    b.DayOfWeek,
		TimeSlotID:   b.TimeSlotID,
		TeacherID:    b.TeacherID,
		RoomID:       b.RoomID,
		ClassGroupID: b.ClassGroupID,
	}
}

func (h *Handler) listSchedules(c *gin.Context) {
	ss, err := h.schedules.List(c.Request.Context(), c.Query("room_id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": ss})
}

func (h *Handler) getSchedule(c *gin.Context) {
	s, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) createSchedule(c *gin.Context) {
	var req scheduleBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	s, err := h.schedules.Create(c.Request.Context(), req.toSchedule(""))
	if err != nil {
		respondScheduleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) updateSchedule(c *gin.Context) {
	var req scheduleBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	s := req.toSchedule(c.Param("id"))
	if err := h.schedules.Update(c.Request.Context(), s); err != nil {
		respondScheduleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) deleteSchedule(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func respondScheduleErr(c *gin.Context, err error) {
	if errors.Is(err, schedule.ErrInvalid) {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	httperr.Respond(c, err)
}
