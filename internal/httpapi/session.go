package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labbook/internal/auth"
	"labbook/internal/httperr"
	"labbook/internal/people"
)

func (h *Handler) register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	u, err := h.people.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondPeopleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	u, pair, err := h.people.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondPeopleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionBody(u, pair))
}

func (h *Handler) refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}
	pair, err := h.people.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondPeopleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	})
}

func sessionBody(u people.User, pair auth.TokenPair) gin.H {
	return gin.H{
		"user":          u,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	}
}

func respondPeopleErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, people.ErrInvalid):
		httperr.Respond(c, httperr.Validation(err.Error()))
	case errors.Is(err, people.ErrBadCredentials):
		httperr.Respond(c, httperr.Unauthorized("invalid credentials"))
	case errors.Is(err, people.ErrTokenRevoked):
		httperr.Respond(c, httperr.Unauthorized("refresh token revoked or expired"))
	default:
		httperr.Respond(c, err)
	}
}
