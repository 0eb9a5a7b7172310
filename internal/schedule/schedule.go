// Package schedule manages recurring weekly class-to-room assignments,
// distinct from ad-hoc bookings: a schedule occupies its slot every week on
// its weekday.
package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"labbook/internal/store"
)

// Schedule is a fixed weekly assignment of a class group to a room.
// DayOfWeek follows time.Weekday numbering for the school week, Monday=1
// through Friday=5.
type Schedule struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	DayOfWeek    int    `json:"day_of_week"`
	TimeSlotID   string `json:"time_slot_id"`
	TeacherID    string `json:"teacher_id"`
	RoomID       string `json:"room_id"`
	ClassGroupID string `json:"class_group_id"`
}

// ErrInvalid flags a malformed schedule.
var ErrInvalid = errors.New("invalid schedule")

// Validate checks required fields and the weekday range.
func (s Schedule) Validate() error {
	if s.Subject == "" || s.TimeSlotID == "" || s.TeacherID == "" || s.RoomID == "" || s.ClassGroupID == "" {
		return fmt.Errorf("%w: all fields required", ErrInvalid)
	}
	if s.DayOfWeek < 1 || s.DayOfWeek > 5 {
		return fmt.Errorf("%w: day_of_week must be 1 (Monday) through 5 (Friday)", ErrInvalid)
	}
	return nil
}

// Repository persists schedules in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a schedule; a second schedule for the same
// (room, weekday, slot) conflicts.
func (r *Repository) Create(ctx context.Context, s Schedule) (Schedule, error) {
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	s.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (id, subject, day_of_week, time_slot_id, teacher_id, room_id, class_group_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, s.ID, s.Subject, s.DayOfWeek, s.TimeSlotID, s.TeacherID, s.RoomID, s.ClassGroupID)
	if err != nil {
		return Schedule{}, store.Translate(err)
	}
	return s, nil
}

// List returns schedules, optionally filtered by room, ordered by weekday
// then slot label.
func (r *Repository) List(ctx context.Context, roomID string) ([]Schedule, error) {
	query := `
		SELECT s.id, s.subject, s.day_of_week, s.time_slot_id, s.teacher_id, s.room_id, s.class_group_id
		FROM schedules s
		JOIN time_slots ts ON ts.id = s.time_slot_id`
	args := []any{}
	if roomID != "" {
		query += ` WHERE s.room_id = $1`
		args = append(args, roomID)
	}
	query += ` ORDER BY s.day_of_week, ts.slot`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.Subject, &s.DayOfWeek, &s.TimeSlotID, &s.TeacherID, &s.RoomID, &s.ClassGroupID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns one schedule by id.
func (r *Repository) Get(ctx context.Context, id string) (Schedule, error) {
	var s Schedule
	err := r.db.QueryRowContext(ctx, `
		SELECT id, subject, day_of_week, time_slot_id, teacher_id, room_id, class_group_id
		FROM schedules WHERE id = $1
	`, id).Scan(&s.ID, &s.Subject, &s.DayOfWeek, &s.TimeSlotID, &s.TeacherID, &s.RoomID, &s.ClassGroupID)
	if err != nil {
		return Schedule{}, store.Translate(err)
	}
	return s, nil
}

// Update replaces a schedule's fields.
func (r *Repository) Update(ctx context.Context, s Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedules
		SET subject = $2, day_of_week = $3, time_slot_id = $4, teacher_id = $5, room_id = $6, class_group_id = $7
		WHERE id = $1
	`, s.ID, s.Subject, s.DayOfWeek, s.TimeSlotID, s.TeacherID, s.RoomID, s.ClassGroupID)
	if err != nil {
		return store.Translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a schedule.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
