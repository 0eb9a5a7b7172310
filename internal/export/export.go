// Package export renders booking listings as CSV. Jobs are requested over
// HTTP, processed by the worker, and the result is parked in Redis under the
// job key until it expires.
package export

import (
	"bytes"
	"encoding/csv"

	"labbook/internal/booking"
)

// MsgBookings is the queue message type for a bookings export job; the
// message body is the job id.
const MsgBookings = "export_bookings"

// Key returns the Redis key a finished job is stored under.
func Key(jobID string) string {
	return "labbook:export:" + jobID
}

// BuildCSV renders bookings as CSV, one row per booking, in the order given.
// Relation names are included when attached so the sheet reads without joins.
func BuildCSV(bookings []booking.Booking) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "date", "time_slot", "room", "teacher", "grade", "status", "created_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		slot, room, teacher, grade := b.TimeSlotID, b.RoomID, b.TeacherID, b.GradeID
		if b.TimeSlot != nil {
			slot = b.TimeSlot.Time
		}
		if b.Room != nil {
			room = b.Room.Name
		}
		if b.Teacher != nil {
			teacher = b.Teacher.Name
		}
		if b.Grade != nil {
			grade = b.Grade.Name
		}
		row := []string{
			b.ID, b.Date, slot, room, teacher, grade,
			string(b.Status),
			b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
