package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"labbook/internal/booking"
	"labbook/internal/refdata"
)

func TestBuildCSV(t *testing.T) {
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	bs := []booking.Booking{
		{
			ID: "b1", Date: "2024-06-10", Status: booking.StatusApproved, CreatedAt: created,
			TimeSlot: &refdata.TimeSlot{Time: "08:30-09:20"},
			Room:     &refdata.Room{Name: "Lab A"},
			Teacher:  &refdata.Teacher{Name: "Ada"},
			Grade:    &refdata.Grade{Name: "Grade 10"},
		},
		// No relations attached: ids appear instead of names.
		{ID: "b2", Date: "2024-06-11", Status: booking.StatusPending, CreatedAt: created,
			TimeSlotID: "s9", RoomID: "r9", TeacherID: "t9", GradeID: "g9"},
	}

	out, err := BuildCSV(bs)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "id" || rows[0][6] != "status" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	want1 := []string{"b1", "2024-06-10", "08:30-09:20", "Lab A", "Ada", "Grade 10", "approved", "2024-06-01T09:00:00Z"}
	for i, cell := range want1 {
		if rows[1][i] != cell {
			t.Errorf("row 1 col %d = %q, want %q", i, rows[1][i], cell)
		}
	}
	if rows[2][2] != "s9" || rows[2][3] != "r9" {
		t.Errorf("row 2 should fall back to ids, got %v", rows[2])
	}
}

func TestBuildCSVEmpty(t *testing.T) {
	out, err := BuildCSV(nil)
	if err != nil {
		t.Fatalf("BuildCSV(nil): %v", err)
	}
	if got := strings.TrimSpace(string(out)); !strings.HasPrefix(got, "id,") || strings.Count(got, "\n") != 0 {
		t.Errorf("empty export should be header only, got %q", got)
	}
}

func TestKey(t *testing.T) {
	if Key("abc") != "labbook:export:abc" {
		t.Errorf("Key(abc) = %s", Key("abc"))
	}
}
