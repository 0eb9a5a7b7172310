package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labbook/internal/httperr"
	"labbook/internal/people"
)

// --- Users ---

func (h *Handler) listUsers(c *gin.Context) {
	us, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": us})
}

func (h *Handler) getUser(c *gin.Context) {
	u, err := h.accounts.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) createUser(c *gin.Context) {
	var req struct {
		Name      string  `json:"name" binding:"required"`
		Email     string  `json:"email" binding:"required"`
		Password  string  `json:"password" binding:"required"`
		Role      string  `json:"role" binding:"required"`
		TeacherID *string `json:"teacher_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	u, err := h.people.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password, req.Role, req.TeacherID)
	if err != nil {
		respondPeopleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) updateUser(c *gin.Context) {
	var req struct {
		Name      string  `json:"name" binding:"required"`
		Role      string  `json:"role" binding:"required"`
		TeacherID *string `json:"teacher_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	u := people.User{ID: c.Param("id"), Name: req.Name, Role: req.Role, TeacherID: req.TeacherID}
	if err := h.accounts.UpdateUser(c.Request.Context(), u); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// --- Students ---

func (h *Handler) listStudents(c *gin.Context) {
	sts, err := h.accounts.ListStudents(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": sts})
}

func (h *Handler) getStudent(c *gin.Context) {
	st, err := h.accounts.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) createStudent(c *gin.Context) {
	var req struct {
		Name         string  `json:"name" binding:"required"`
		Email        string  `json:"email" binding:"required"`
		Password     string  `json:"password" binding:"required"`
		ClassGroupID *string `json:"class_group_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	u, st, err := h.people.CreateStudent(c.Request.Context(), req.Name, req.Email, req.Password, req.ClassGroupID)
	if err != nil {
		respondPeopleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "student": st})
}

func (h *Handler) updateStudent(c *gin.Context) {
	var req struct {
		Name         string  `json:"name" binding:"required"`
		ClassGroupID *string `json:"class_group_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	st := people.Student{ID: c.Param("id"), Name: req.Name, ClassGroupID: req.ClassGroupID}
	if err := h.accounts.UpdateStudent(c.Request.Context(), st); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteStudent(c *gin.Context) {
	if err := h.accounts.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
