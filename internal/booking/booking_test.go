package booking

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusRejected, true},
		{StatusRejected, StatusApproved, true},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusApproved, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "approved", "rejected"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseStatus("confirmed"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParseStatus(confirmed) = %v, want ErrInvalid", err)
	}
	if _, err := ParseStatus(""); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParseStatus(empty) = %v, want ErrInvalid", err)
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2024-06-10"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"", "10/06/2024", "2024-13-01", "today"} {
		if err := ValidateDate(bad); !errors.Is(err, ErrInvalid) {
			t.Errorf("ValidateDate(%q) = %v, want ErrInvalid", bad, err)
		}
	}
}
