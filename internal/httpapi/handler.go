// Package httpapi wires the gin router: authentication endpoints, the booking
// workflow, reference-data CRUD, schedules, the occupancy grid and exports.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labbook/internal/auth"
	"labbook/internal/booking"
	"labbook/internal/config"
	"labbook/internal/people"
	"labbook/internal/queue"
	"labbook/internal/refdata"
	"labbook/internal/schedule"
	"labbook/internal/store"
)

// Handler carries the dependencies the endpoints need.
type Handler struct {
	cfg       config.App
	bookings  *booking.Service
	refdata   *refdata.Repository
	people    *people.Service
	accounts  *people.Repository
	schedules *schedule.Repository
	jobs      queue.Queue
	redis     *store.Redis
	db        *store.DB
}

// New creates a handler.
func New(cfg config.App, bookings *booking.Service, ref *refdata.Repository, ppl *people.Service,
	accounts *people.Repository, schedules *schedule.Repository, jobs queue.Queue,
	redis *store.Redis, db *store.DB) *Handler {
	return &Handler{
		cfg:       cfg,
		bookings:  bookings,
		refdata:   ref,
		people:    ppl,
		accounts:  accounts,
		schedules: schedules,
		jobs:      jobs,
		redis:     redis,
		db:        db,
	}
}

// Register attaches all routes to the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.healthz)

	r.POST("/auth/register", h.register)
	r.POST("/auth/login", h.login)
	r.POST("/auth/refresh", h.refresh)

	// Rooms and time slots are world-readable so the booking form can load
	// without a session.
	r.GET("/rooms", h.listRooms)
	r.GET("/time-slots", h.listTimeSlots)

	authed := r.Group("/v1", auth.Require(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))
	adminOnly := auth.RequireRole(auth.RoleAdmin)
	staff := auth.RequireRole(auth.RoleAdmin, auth.RoleTeacher)

	// Booking workflow.
	authed.GET("/bookings", h.listBookings)
	authed.GET("/bookings/:id", h.getBooking)
	authed.POST("/bookings", staff, h.createBooking)
	authed.PUT("/bookings/:id", adminOnly, h.updateBooking)
	authed.PUT("/bookings/:id/status", adminOnly, h.transitionBooking)
	authed.DELETE("/bookings/:id", h.deleteBooking)

	// Occupancy reads.
	authed.GET("/rooms/:id/grid", h.roomGrid)
	authed.GET("/rooms/:id/occupancy", h.slotOccupancy)

	// Reference data: open reads, admin mutation.
	authed.GET("/teachers", h.listTeachers)
	authed.GET("/teachers/:id", h.getTeacher)
	authed.POST("/teachers", adminOnly, h.createTeacher)
	authed.PUT("/teachers/:id", adminOnly, h.updateTeacher)
	authed.DELETE("/teachers/:id", adminOnly, h.deleteTeacher)

	authed.GET("/grades", h.listGrades)
	authed.POST("/grades", adminOnly, h.createGrade)
	authed.PUT("/grades/:id", adminOnly, h.updateGrade)
	authed.DELETE("/grades/:id", adminOnly, h.deleteGrade)

	authed.GET("/class-groups", h.listClassGroups)
	authed.POST("/class-groups", adminOnly, h.createClassGroup)
	authed.PUT("/class-groups/:id", adminOnly, h.updateClassGroup)
	authed.DELETE("/class-groups/:id", adminOnly, h.deleteClassGroup)

	authed.POST("/rooms", adminOnly, h.createRoom)
	authed.PUT("/rooms/:id", adminOnly, h.updateRoom)
	authed.DELETE("/rooms/:id", adminOnly, h.deleteRoom)

	authed.POST("/time-slots", adminOnly, h.createTimeSlot)
	authed.PUT("/time-slots/:id", adminOnly, h.updateTimeSlot)
	authed.DELETE("/time-slots/:id", adminOnly, h.deleteTimeSlot)

	// Schedules.
	authed.GET("/schedules", h.listSchedules)
	authed.GET("/schedules/:id", h.getSchedule)
	authed.POST("/schedules", adminOnly, h.createSchedule)
	authed.PUT("/schedules/:id", adminOnly, h.updateSchedule)
	authed.DELETE("/schedules/:id", adminOnly, h.deleteSchedule)

	// People.
	authed.GET("/users", adminOnly, h.listUsers)
	authed.GET("/users/:id", adminOnly, h.getUser)
	authed.POST("/users", adminOnly, h.createUser)
	authed.PUT("/users/:id", adminOnly, h.updateUser)
	authed.DELETE("/users/:id", adminOnly, h.deleteUser)

	authed.GET("/students", staff, h.listStudents)
	authed.GET("/students/:id", staff, h.getStudent)
	authed.POST("/students", adminOnly, h.createStudent)
	authed.PUT("/students/:id", adminOnly, h.updateStudent)
	authed.DELETE("/students/:id", adminOnly, h.deleteStudent)

	// Exports.
	authed.POST("/admin/export/bookings", adminOnly, h.requestExport)
	authed.GET("/admin/export/bookings/:job", adminOnly, h.fetchExport)
}

func (h *Handler) healthz(c *gin.Context) {
	redisHealthy := h.redis.Healthy(c.Request.Context())
	dbHealthy := h.db != nil && h.db.Client != nil && h.db.Client.PingContext(c.Request.Context()) == nil
	status := http.StatusOK
	if !redisHealthy || !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
}
