package booking

import (
	"context"
	"fmt"

	"labbook/internal/auth"
)

// Store is the persistence surface the workflow needs. *Repository satisfies
// it; tests use an in-memory fake.
type Store interface {
	Insert(ctx context.Context, b Booking) (Booking, error)
	Get(ctx context.Context, id string) (Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)
	UpdateFields(ctx context.Context, id string, upd Update) error
	SetStatus(ctx context.Context, id string, st Status) error
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountApproved(ctx context.Context, roomID, date, slotID string) (int, error)
}

// Service runs the booking workflow on top of a Store.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateRequest carries the fields of a new booking request.
type CreateRequest struct {
	TeacherID  string `json:"teacher_id"`
	GradeID    string `json:"grade_id"`
	RoomID     string `json:"room_id"`
	TimeSlotID string `json:"time_slot_id"`
	Date       string `json:"date"`
}

// Create validates a request and files it with status pending. Multiple
// pending requests may target the same slot; approval arbitrates.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Booking, error) {
	required := []struct{ field, val string }{
		{"teacher_id", req.TeacherID},
		{"grade_id", req.GradeID},
		{"room_id", req.RoomID},
		{"time_slot_id", req.TimeSlotID},
	}
	for _, r := range required {
		if r.val == "" {
			return Booking{}, fmt.Errorf("%w: %s required", ErrInvalid, r.field)
		}
	}
	if err := ValidateDate(req.Date); err != nil {
		return Booking{}, err
	}
	return s.store.Insert(ctx, Booking{
		TeacherID:  req.TeacherID,
		GradeID:    req.GradeID,
		RoomID:     req.RoomID,
		TimeSlotID: req.TimeSlotID,
		Date:       req.Date,
		Status:     StatusPending,
	})
}

// Get returns one booking.
func (s *Service) Get(ctx context.Context, id string) (Booking, error) {
	return s.store.Get(ctx, id)
}

// List returns bookings matching the filter in chronological order.
func (s *Service) List(ctx context.Context, f Filter) ([]Booking, error) {
	return s.store.List(ctx, f)
}

// Transition moves a booking to a new status. Approvals are exclusive: the
// store rejects a second approval for an occupied slot.
func (s *Service) Transition(ctx context.Context, id string, to Status) (Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if !CanTransition(b.Status, to) {
		return Booking{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, b.Status, to)
	}
	if to == StatusApproved {
		err = s.store.Approve(ctx, id)
	} else {
		err = s.store.SetStatus(ctx, id, to)
	}
	if err != nil {
		return Booking{}, err
	}
	return s.store.Get(ctx, id)
}

// Update applies a partial edit to a booking's fields.
func (s *Service) Update(ctx context.Context, id string, upd Update) (Booking, error) {
	if upd.Date != nil {
		if err := ValidateDate(*upd.Date); err != nil {
			return Booking{}, err
		}
	}
	if err := s.store.UpdateFields(ctx, id, upd); err != nil {
		return Booking{}, err
	}
	return s.store.Get(ctx, id)
}

// Delete removes a booking. Admins may delete any booking; a teacher may only
// delete their own.
func (s *Service) Delete(ctx context.Context, id string, actor auth.Claims) error {
	if actor.Role != auth.RoleAdmin {
		b, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		if actor.Role != auth.RoleTeacher || actor.TeacherID == "" || b.TeacherID != actor.TeacherID {
			return ErrNotOwner
		}
	}
	return s.store.Delete(ctx, id)
}

// IsSlotOccupied reports whether an approved booking holds (room, date, slot).
// Pending and rejected bookings never occupy a slot.
func (s *Service) IsSlotOccupied(ctx context.Context, roomID, date, slotID string) (bool, error) {
	n, err := s.store.CountApproved(ctx, roomID, date, slotID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
