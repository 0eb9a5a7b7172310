package schedule

import (
	"errors"
	"testing"
)

func valid() Schedule {
	return Schedule{
		Subject:      "Chemistry",
		DayOfWeek:    3,
		TimeSlotID:   "slot-1",
		TeacherID:    "teacher-1",
		RoomID:       "room-1",
		ClassGroupID: "group-1",
	}
}

func TestValidate(t *testing.T) {
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}

	s := valid()
	s.Subject = ""
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("missing subject: got %v", err)
	}

	s = valid()
	s.TimeSlotID = ""
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("missing time slot: got %v", err)
	}
}

func TestValidateWeekdayRange(t *testing.T) {
	for _, day := range []int{0, 6, -1, 7} {
		s := valid()
		s.DayOfWeek = day
		if err := s.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("day %d accepted", day)
		}
	}
	for day := 1; day <= 5; day++ {
		s := valid()
		s.DayOfWeek = day
		if err := s.Validate(); err != nil {
			t.Errorf("day %d rejected: %v", day, err)
		}
	}
}
