package refdata

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"labbook/internal/store"
)

// Repository persists reference data in Postgres. Uniqueness and referential
// integrity live in the schema; violations surface as store sentinels.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// --- Teachers ---

// CreateTeacher inserts a teacher; duplicate names conflict.
func (r *Repository) CreateTeacher(ctx context.Context, name string) (Teacher, error) {
	t := Teacher{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teachers (id, name, created_at) VALUES ($1, $2, $3)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return Teacher{}, store.Translate(err)
	}
	return t, nil
}

// ListTeachers returns all teachers ordered by name.
func (r *Repository) ListTeachers(ctx context.Context) ([]Teacher, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM teachers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTeacher returns a teacher by id.
func (r *Repository) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	var t Teacher
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM teachers WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return Teacher{}, store.Translate(err)
	}
	return t, nil
}

// UpdateTeacher renames a teacher.
func (r *Repository) UpdateTeacher(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE teachers SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return store.Translate(err)
	}
	return rowsFound(res)
}

// DeleteTeacher removes a teacher; blocked while bookings or schedules
// reference them.
func (r *Repository) DeleteTeacher(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	return rowsFound(res)
}

// --- Grades and class groups share the id+name shape ---

func (r *Repository) createNamed(ctx context.Context, table, name string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `INSERT INTO `+table+` (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		return "", store.Translate(err)
	}
	return id, nil
}

func (r *Repository) listNamed(ctx context.Context, table string) ([][2]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out [][2]string
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out = append(out, [2]string{id, name})
	}
	return out, rows.Err()
}

func (r *Repository) renameNamed(ctx context.Context, table, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return store.Translate(err)
	}
	return rowsFound(res)
}

func (r *Repository) deleteNamed(ctx context.Context, table, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	return rowsFound(res)
}

// CreateGrade inserts a grade; duplicate names conflict.
func (r *Repository) CreateGrade(ctx context.Context, name string) (Grade, error) {
	id, err := r.createNamed(ctx, "grades", name)
	if err != nil {
		return Grade{}, err
	}
	return Grade{ID: id, Name: name}, nil
}

// ListGrades returns all grades ordered by name.
func (r *Repository) ListGrades(ctx context.Context) ([]Grade, error) {
	pairs, err := r.listNamed(ctx, "grades")
	if err != nil {
		return nil, err
	}
	out := make([]Grade, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Grade{ID: p[0], Name: p[1]})
	}
	return out, nil
}

// UpdateGrade renames a grade.
func (r *Repository) UpdateGrade(ctx context.Context, id, name string) error {
	return r.renameNamed(ctx, "grades", id, name)
}

// DeleteGrade removes a grade; blocked while bookings reference it.
func (r *Repository) DeleteGrade(ctx context.Context, id string) error {
	return r.deleteNamed(ctx, "grades", id)
}

// CreateClassGroup inserts a class group; duplicate names conflict.
func (r *Repository) CreateClassGroup(ctx context.Context, name string) (ClassGroup, error) {
	id, err := r.createNamed(ctx, "class_groups", name)
	if err != nil {
		return ClassGroup{}, err
	}
	return ClassGroup{ID: id, Name: name}, nil
}

// ListClassGroups returns all class groups ordered by name.
func (r *Repository) ListClassGroups(ctx context.Context) ([]ClassGroup, error) {
	pairs, err := r.listNamed(ctx, "class_groups")
	if err != nil {
		return nil, err
	}
	out := make([]ClassGroup, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, ClassGroup{ID: p[0], Name: p[1]})
	}
	return out, nil
}

// UpdateClassGroup renames a class group.
func (r *Repository) UpdateClassGroup(ctx context.Context, id, name string) error {
	return r.renameNamed(ctx, "class_groups", id, name)
}

// DeleteClassGroup removes a class group; blocked while students or schedules
// reference it.
func (r *Repository) DeleteClassGroup(ctx context.Context, id string) error {
	return r.deleteNamed(ctx, "class_groups", id)
}

// --- Rooms ---

// CreateRoom inserts a room; duplicate names conflict.
func (r *Repository) CreateRoom(ctx context.Context, name string, roomNumber *string, capacity *int) (Room, error) {
	room := Room{ID: uuid.NewString(), Name: name, RoomNumber: roomNumber, Capacity: capacity}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, room_number, capacity) VALUES ($1, $2, $3, $4)`,
		room.ID, room.Name, room.RoomNumber, room.Capacity)
	if err != nil {
		return Room{}, store.Translate(err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name.
func (r *Repository) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, room_number, capacity FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Name, &room.RoomNumber, &room.Capacity); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// GetRoom returns a room by id.
func (r *Repository) GetRoom(ctx context.Context, id string) (Room, error) {
	var room Room
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, room_number, capacity FROM rooms WHERE id = $1`, id).
		Scan(&room.ID, &room.Name, &room.RoomNumber, &room.Capacity)
	if err != nil {
		return Room{}, store.Translate(err)
	}
	return room, nil
}

// UpdateRoom edits a room's fields.
func (r *Repository) UpdateRoom(ctx context.Context, room Room) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET name = $2, room_number = $3, capacity = $4 WHERE id = $1`,
		room.ID, room.Name, room.RoomNumber, room.Capacity)
	if err != nil {
		return store.Translate(err)
	}
	return rowsFound(res)
}

// DeleteRoom removes a room; blocked while bookings or schedules reference it.
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	return rowsFound(res)
}

// --- Time slots ---

// CreateTimeSlot inserts a time slot; duplicate labels conflict.
func (r *Repository) CreateTimeSlot(ctx context.Context, name, slot string) (TimeSlot, error) {
	ts := TimeSlot{ID: uuid.NewString(), Name: name, Time: slot}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_slots (id, name, slot) VALUES ($1, $2, $3)`,
		ts.ID, ts.Name, ts.Time)
	if err != nil {
		return TimeSlot{}, store.Translate(err)
	}
	return ts, nil
}

// ListTimeSlots returns all slots ordered by label, i.e. chronologically.
func (r *Repository) ListTimeSlots(ctx context.Context) ([]TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slot FROM time_slots ORDER BY slot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TimeSlot
	for rows.Next() {
		var ts TimeSlot
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.Time); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// UpdateTimeSlot edits a slot's name and label.
func (r *Repository) UpdateTimeSlot(ctx context.Context, ts TimeSlot) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_slots SET name = $2, slot = $3 WHERE id = $1`, ts.ID, ts.Name, ts.Time)
	if err != nil {
		return store.Translate(err)
	}
	return rowsFound(res)
}

// DeleteTimeSlot removes a slot; blocked while bookings or schedules
// reference it.
func (r *Repository) DeleteTimeSlot(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	return rowsFound(res)
}

func rowsFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
