// Package grid renders a room's weekly occupancy from approved bookings and
// recurring schedules. It is pure aggregation: the workflow rules live in the
// booking package.
package grid

import (
	"sort"
	"time"

	"labbook/internal/booking"
	"labbook/internal/refdata"
	"labbook/internal/schedule"
)

const dateLayout = "2006-01-02"

// Cell is one (day, slot) position. A booking overlays a recurring schedule
// when both claim the slot.
type Cell struct {
	Booking  *booking.Booking   `json:"booking,omitempty"`
	Schedule *schedule.Schedule `json:"schedule,omitempty"`
}

// Occupied reports whether anything claims the cell.
func (c Cell) Occupied() bool { return c.Booking != nil || c.Schedule != nil }

// Day is one weekday column of the grid, keyed by time slot id.
type Day struct {
	Date  string          `json:"date"`
	Cells map[string]Cell `json:"cells"`
}

// Week is the rendered grid for one room, Monday through Friday.
type Week struct {
	RoomID string             `json:"room_id"`
	Slots  []refdata.TimeSlot `json:"slots"`
	Days   []Day              `json:"days"`
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return t.AddDate(0, 0, -offset)
}

// Build assembles the weekly grid. Only approved bookings occupy cells;
// pending and rejected rows are ignored regardless of what the caller passes.
// Schedules occupy their weekday every week.
func Build(roomID string, weekStart time.Time, slots []refdata.TimeSlot, bookings []booking.Booking, schedules []schedule.Schedule) Week {
	sorted := make([]refdata.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	week := Week{RoomID: roomID, Slots: sorted}
	for d := 0; d < 5; d++ {
		date := weekStart.AddDate(0, 0, d).Format(dateLayout)
		day := Day{Date: date, Cells: make(map[string]Cell, len(sorted))}
		for _, ts := range sorted {
			day.Cells[ts.ID] = Cell{}
		}
		week.Days = append(week.Days, day)
	}

	for _, s := range schedules {
		if s.RoomID != roomID || s.DayOfWeek < 1 || s.DayOfWeek > 5 {
			continue
		}
		day := week.Days[s.DayOfWeek-1]
		if cell, ok := day.Cells[s.TimeSlotID]; ok {
			sc := s
			cell.Schedule = &sc
			day.Cells[s.TimeSlotID] = cell
		}
	}

	for _, b := range bookings {
		if b.RoomID != roomID || b.Status != booking.StatusApproved {
			continue
		}
		for i := range week.Days {
			if week.Days[i].Date != b.Date {
				continue
			}
			if cell, ok := week.Days[i].Cells[b.TimeSlotID]; ok {
				bk := b
				cell.Booking = &bk
				week.Days[i].Cells[b.TimeSlotID] = cell
			}
		}
	}

	return week
}

// SortChronological orders bookings by (date, slot label), matching the
// repository's SQL ordering for rows aggregated in memory.
func SortChronological(bs []booking.Booking) {
	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].Date != bs[j].Date {
			return bs[i].Date < bs[j].Date
		}
		var ti, tj string
		if bs[i].TimeSlot != nil {
			ti = bs[i].TimeSlot.Time
		}
		if bs[j].TimeSlot != nil {
			tj = bs[j].TimeSlot.Time
		}
		return ti < tj
	})
}
