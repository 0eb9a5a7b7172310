package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"labbook/internal/export"
	"labbook/internal/httperr"
	"labbook/internal/queue"
)

// requestExport enqueues a bookings export job. The worker renders the CSV
// and parks it under the job key; the client polls fetchExport.
func (h *Handler) requestExport(c *gin.Context) {
	jobID := uuid.NewString()
	msg := queue.Message{Type: export.MsgBookings, Body: []byte(jobID)}
	if err := h.jobs.Publish(c.Request.Context(), msg); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job": jobID})
}

func (h *Handler) fetchExport(c *gin.Context) {
	jobID := c.Param("job")
	data, err := h.redis.Client.Get(c.Request.Context(), export.Key(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			httperr.Respond(c, httperr.NotFound("export not ready or expired"))
			return
		}
		httperr.Respond(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bookings-`+jobID+`.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
