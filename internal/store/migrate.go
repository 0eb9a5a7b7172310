package store

import (
	"context"
	"database/sql"
	"log"
)

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent so every process can run this at startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	log.Println("running database migrations...")
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	log.Println("database migrations completed")
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS teachers (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS grades (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS class_groups (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL UNIQUE,
		room_number  TEXT,
		capacity     INT
	)`,
	`CREATE TABLE IF NOT EXISTS time_slots (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		slot  TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL UNIQUE,
		password_hash  TEXT NOT NULL,
		role           TEXT NOT NULL,
		teacher_id     TEXT REFERENCES teachers(id) ON DELETE RESTRICT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		user_id         TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE RESTRICT,
		class_group_id  TEXT REFERENCES class_groups(id) ON DELETE RESTRICT
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id            TEXT PRIMARY KEY,
		teacher_id    TEXT NOT NULL REFERENCES teachers(id) ON DELETE RESTRICT,
		grade_id      TEXT NOT NULL REFERENCES grades(id) ON DELETE RESTRICT,
		room_id       TEXT NOT NULL REFERENCES rooms(id) ON DELETE RESTRICT,
		time_slot_id  TEXT NOT NULL REFERENCES time_slots(id) ON DELETE RESTRICT,
		booking_date  TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// One approved booking per slot. Pending and rejected rows may pile up
	// freely; only approval claims the slot.
	`CREATE UNIQUE INDEX IF NOT EXISTS bookings_approved_slot
		ON bookings (room_id, booking_date, time_slot_id)
		WHERE status = 'approved'`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id              TEXT PRIMARY KEY,
		subject         TEXT NOT NULL,
		day_of_week     INT NOT NULL,
		time_slot_id    TEXT NOT NULL REFERENCES time_slots(id) ON DELETE RESTRICT,
		teacher_id      TEXT NOT NULL REFERENCES teachers(id) ON DELETE RESTRICT,
		room_id         TEXT NOT NULL REFERENCES rooms(id) ON DELETE RESTRICT,
		class_group_id  TEXT NOT NULL REFERENCES class_groups(id) ON DELETE RESTRICT,
		UNIQUE (room_id, day_of_week, time_slot_id)
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token       TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		revoked     BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_by_room_date ON bookings (room_id, booking_date)`,
	`CREATE INDEX IF NOT EXISTS bookings_by_teacher ON bookings (teacher_id)`,
}
