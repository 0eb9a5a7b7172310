package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"labbook/internal/refdata"
	"labbook/internal/store"
)

// Repository persists bookings in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `
	b.id, b.teacher_id, b.grade_id, b.room_id, b.time_slot_id,
	b.booking_date, b.status, b.created_at,
	t.name, g.name, r.name, r.room_number, r.capacity, ts.name, ts.slot`

const bookingJoins = `
	FROM bookings b
	JOIN teachers t   ON t.id  = b.teacher_id
	JOIN grades g     ON g.id  = b.grade_id
	JOIN rooms r      ON r.id  = b.room_id
	JOIN time_slots ts ON ts.id = b.time_slot_id`

func scanBooking(row interface{ Scan(...any) error }) (Booking, error) {
	var (
		b        Booking
		teacher  refdata.Teacher
		grade    refdata.Grade
		room     refdata.Room
		timeSlot refdata.TimeSlot
	)
	err := row.Scan(
		&b.ID, &b.TeacherID, &b.GradeID, &b.RoomID, &b.TimeSlotID,
		&b.Date, &b.Status, &b.CreatedAt,
		&teacher.Name, &grade.Name, &room.Name, &room.RoomNumber, &room.Capacity,
		&timeSlot.Name, &timeSlot.Time,
	)
	if err != nil {
		return Booking{}, err
	}
	teacher.ID, grade.ID, room.ID, timeSlot.ID = b.TeacherID, b.GradeID, b.RoomID, b.TimeSlotID
	b.Teacher, b.Grade, b.Room, b.TimeSlot = &teacher, &grade, &room, &timeSlot
	return b, nil
}

// Insert writes a new booking and returns it with relations attached.
func (r *Repository) Insert(ctx context.Context, b Booking) (Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (id, teacher_id, grade_id, room_id, time_slot_id, booking_date, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, b.ID, b.TeacherID, b.GradeID, b.RoomID, b.TimeSlotID, b.Date, b.Status, b.CreatedAt)
	if err != nil {
		return Booking{}, store.Translate(err)
	}
	return r.Get(ctx, b.ID)
}

// Get returns a single booking by id with relations attached.
func (r *Repository) Get(ctx context.Context, id string) (Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+bookingColumns+bookingJoins+` WHERE b.id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return Booking{}, store.Translate(err)
	}
	return b, nil
}

// Filter narrows a booking listing. Zero values mean "no constraint".
type Filter struct {
	RoomID    string
	TeacherID string
	Status    Status
	DateFrom  string
	DateTo    string
	Limit     int
	Offset    int
}

// List returns bookings matching the filter, ordered chronologically by
// (date, slot label) for stable display.
func (r *Repository) List(ctx context.Context, f Filter) ([]Booking, error) {
	if f.Limit <= 0 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	query := `SELECT` + bookingColumns + bookingJoins
	args := []any{}
	clauses := []string{}
	add := func(clause string, val any) {
		clauses = append(clauses, clause+"$"+strconv.Itoa(len(args)+1))
		args = append(args, val)
	}
	if f.RoomID != "" {
		add("b.room_id = ", f.RoomID)
	}
	if f.TeacherID != "" {
		add("b.teacher_id = ", f.TeacherID)
	}
	if f.Status != "" {
		add("b.status = ", string(f.Status))
	}
	if f.DateFrom != "" {
		add("b.booking_date >= ", f.DateFrom)
	}
	if f.DateTo != "" {
		add("b.booking_date <= ", f.DateTo)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY b.booking_date ASC, ts.slot ASC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Translate(err)
	}
	defer rows.Close()
	var res []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// Update describes a partial edit; nil fields are left unchanged. Status is
// handled by the service's transition path, not here.
type Update struct {
	TeacherID  *string `json:"teacher_id"`
	GradeID    *string `json:"grade_id"`
	RoomID     *string `json:"room_id"`
	TimeSlotID *string `json:"time_slot_id"`
	Date       *string `json:"date"`
}

// UpdateFields applies the non-nil fields of upd to a booking.
func (r *Repository) UpdateFields(ctx context.Context, id string, upd Update) error {
	sets := []string{}
	args := []any{id}
	set := func(col string, val any) {
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)+1))
		args = append(args, val)
	}
	if upd.TeacherID != nil {
		set("teacher_id", *upd.TeacherID)
	}
	if upd.GradeID != nil {
		set("grade_id", *upd.GradeID)
	}
	if upd.RoomID != nil {
		set("room_id", *upd.RoomID)
	}
	if upd.TimeSlotID != nil {
		set("time_slot_id", *upd.TimeSlotID)
	}
	if upd.Date != nil {
		set("booking_date", *upd.Date)
	}
	if len(sets) == 0 {
		return nil
	}
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return store.Translate(err)
	}
	return checkAffected(res)
}

// SetStatus updates the status without occupancy checks. Used for rejections;
// approvals go through Approve.
func (r *Repository) SetStatus(ctx context.Context, id string, st Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, string(st))
	if err != nil {
		return store.Translate(err)
	}
	return checkAffected(res)
}

// Approve marks a booking approved inside a transaction, failing with a
// conflict when another approved booking already holds the slot. The partial
// unique index on approved bookings backs this check against races.
func (r *Repository) Approve(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var roomID, date, slotID string
	err = tx.QueryRowContext(ctx, `
		SELECT room_id, booking_date, time_slot_id FROM bookings WHERE id = $1 FOR UPDATE
	`, id).Scan(&roomID, &date, &slotID)
	if err != nil {
		return store.Translate(err)
	}

	var occupied int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE room_id = $1 AND booking_date = $2 AND time_slot_id = $3
		  AND status = 'approved' AND id <> $4
	`, roomID, date, slotID, id).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return fmt.Errorf("%w: slot already has an approved booking", store.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = 'approved' WHERE id = $1`, id); err != nil {
		return store.Translate(err)
	}
	return tx.Commit()
}

// Delete removes a booking permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	return checkAffected(res)
}

// CountApproved returns the number of approved bookings holding a slot.
func (r *Repository) CountApproved(ctx context.Context, roomID, date, slotID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE room_id = $1 AND booking_date = $2 AND time_slot_id = $3 AND status = 'approved'
	`, roomID, date, slotID).Scan(&n)
	return n, err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
