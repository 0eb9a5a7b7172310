// Package booking implements the room-booking workflow: teachers file
// requests, admins approve or reject them, and approved bookings claim their
// (room, date, time slot) exclusively.
package booking

import (
	"errors"
	"fmt"
	"time"

	"labbook/internal/refdata"
)

// Status is a booking's position in the approval workflow.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status string from a request body.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
}

// CanTransition reports whether a booking may move from one status to
// another. New requests start pending; admins may approve or reject, and may
// flip a decision either way, but nothing returns to pending.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusRejected
	case StatusRejected:
		return to == StatusApproved
	}
	return false
}

// Booking is an ad-hoc request to use a room at a date and time slot.
// Relation fields are populated on reads for immediate display.
type Booking struct {
	ID         string    `json:"id"`
	TeacherID  string    `json:"teacher_id"`
	GradeID    string    `json:"grade_id"`
	RoomID     string    `json:"room_id"`
	TimeSlotID string    `json:"time_slot_id"`
	Date       string    `json:"date"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	Teacher  *refdata.Teacher  `json:"teacher,omitempty"`
	Grade    *refdata.Grade    `json:"grade,omitempty"`
	Room     *refdata.Room     `json:"room,omitempty"`
	TimeSlot *refdata.TimeSlot `json:"time_slot,omitempty"`
}

// Sentinel errors the service returns; handlers map them onto HTTP statuses.
var (
	ErrInvalid       = errors.New("invalid booking")
	ErrBadTransition = errors.New("invalid status transition")
	ErrNotOwner      = errors.New("not the booking owner")
)

const dateLayout = "2006-01-02"

// ValidateDate checks an ISO calendar date string.
func ValidateDate(date string) error {
	if date == "" {
		return fmt.Errorf("%w: date required", ErrInvalid)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}
	return nil
}
