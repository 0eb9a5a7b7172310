package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labbook/internal/httperr"
	"labbook/internal/refdata"
)

type nameBody struct {
	Name string `json:"name" binding:"required"`
}

// --- Teachers ---

func (h *Handler) listTeachers(c *gin.Context) {
	ts, err := h.refdata.ListTeachers(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": ts})
}

func (h *Handler) getTeacher(c *gin.Context) {
	t, err := h.refdata.GetTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) createTeacher(c *gin.Context) {
	var req nameBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	t, err := h.refdata.CreateTeacher(c.Request.Context(), req.Name)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) updateTeacher(c *gin.Context) {
	var req nameBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	if err := h.refdata.UpdateTeacher(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteTeacher(c *gin.Context) {
	if err := h.refdata.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// --- Grades ---

func (h *Handler) listGrades(c *gin.Context) {
	gs, err := h.refdata.ListGrades(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grades": gs})
}

func (h *Handler) createGrade(c *gin.Context) {
	var req nameBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	g, err := h.refdata.CreateGrade(c.Request.Context(), req.Name)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) updateGrade(c *gin.Context) {
	var req nameBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	if err := h.refdata.UpdateGrade(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteGrade(c *gin.Context) {
	if err := h.refdata.DeleteGrade(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// --- Class groups ---

func (h *Handler) listClassGroups(c *gin.Context) {
	cgs, err := h.refdata.ListClassGroups(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class_groups": cgs})
}

func (h *Handler) createClassGroup(c *gin.Context) {
	var req nameBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	cg, err := h.refdata.CreateClassGroup(c.Request.Context(), req.Name)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, cg)
}

func (h *Handler) updateClassGroup(c *gin.Context) {
	var req nameBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	if err := h.refdata.UpdateClassGroup(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteClassGroup(c *gin.Context) {
	if err := h.refdata.DeleteClassGroup(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// --- Rooms ---

type roomBody struct {
	Name       string  `json:"name" binding:"required"`
	RoomNumber *string `json:"room_number"`
	Capacity   *int    `json:"capacity"`
}

func (h *Handler) listRooms(c *gin.Context) {
	rooms, err := h.refdata.ListRooms(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) createRoom(c *gin.Context) {
	var req roomBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	room, err := h.refdata.CreateRoom(c.Request.Context(), req.Name, req.RoomNumber, req.Capacity)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *Handler) updateRoom(c *gin.Context) {
	var req roomBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	room := refdata.Room{ID: c.Param("id"), Name: req.Name, RoomNumber: req.RoomNumber, Capacity: req.Capacity}
	if err := h.refdata.UpdateRoom(c.Request.Context(), room); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) deleteRoom(c *gin.Context) {
	if err := h.refdata.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// --- Time slots ---

type timeSlotBody struct {
	Name string `json:"name" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *Handler) listTimeSlots(c *gin.Context) {
	slots, err := h.refdata.ListTimeSlots(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_slots": slots})
}

func (h *Handler) createTimeSlot(c *gin.Context) {
	var req timeSlotBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	ts, err := h.refdata.CreateTimeSlot(c.Request.Context(), req.Name, req.Time)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, ts)
}

func (h *Handler) updateTimeSlot(c *gin.Context) {
	var req timeSlotBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	ts := refdata.TimeSlot{ID: c.Param("id"), Name: req.Name, Time: req.Time}
	if err := h.refdata.UpdateTimeSlot(c.Request.Context(), ts); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *Handler) deleteTimeSlot(c *gin.Context) {
	if err := h.refdata.DeleteTimeSlot(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
