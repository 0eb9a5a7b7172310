// Package refdata holds the reference entities admins maintain: teachers,
// grades, rooms, time slots and class groups. They have no lifecycle beyond
// create/update/delete and are referenced by bookings and schedules.
package refdata

import "time"

// Teacher is a member of staff who can request bookings.
type Teacher struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Grade is a year level, e.g. "Grade 10".
type Grade struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassGroup is a named group of students, e.g. "10-B".
type ClassGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is a bookable laboratory space.
type Room struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RoomNumber *string `json:"room_number,omitempty"`
	Capacity   *int    `json:"capacity,omitempty"`
}

// TimeSlot is a period of the school day. Time is the unique display label,
// e.g. "08:30-09:20"; labels sort chronologically as plain strings.
type TimeSlot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}
