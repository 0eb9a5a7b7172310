package people

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"labbook/internal/store"
)

// Repository persists users, students and refresh tokens in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user; duplicate emails conflict.
func (r *Repository) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, teacher_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.TeacherID, u.CreatedAt)
	if err != nil {
		return User{}, store.Translate(err)
	}
	return u, nil
}

const userColumns = `id, name, email, password_hash, role, teacher_id, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.TeacherID, &u.CreatedAt)
	return u, err
}

// GetUser returns a user by id.
func (r *Repository) GetUser(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return User{}, store.Translate(err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return User{}, store.Translate(err)
	}
	return u, nil
}

// ListUsers returns all users ordered by name.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateUser edits name, role and teacher linkage.
func (r *Repository) UpdateUser(ctx context.Context, u User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = $2, role = $3, teacher_id = $4 WHERE id = $1
	`, u.ID, u.Name, u.Role, u.TeacherID)
	if err != nil {
		return store.Translate(err)
	}
	return rowsFound(res)
}

// DeleteUser removes a user; blocked while a student record references it.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	return rowsFound(res)
}

// CreateStudentWithUser writes the user account and the student row in one
// transaction; a failure on either side leaves nothing behind.
func (r *Repository) CreateStudentWithUser(ctx context.Context, u User, st Student) (User, Student, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	st.UserID = u.ID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, Student{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, teacher_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.TeacherID, u.CreatedAt)
	if err != nil {
		return User{}, Student{}, store.Translate(err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO students (id, name, user_id, class_group_id)
		VALUES ($1,$2,$3,$4)
	`, st.ID, st.Name, st.UserID, st.ClassGroupID)
	if err != nil {
		return User{}, Student{}, store.Translate(err)
	}
	if err := tx.Commit(); err != nil {
		return User{}, Student{}, err
	}
	return u, st, nil
}

// ListStudents returns all students ordered by name.
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, user_id, class_group_id FROM students ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.UserID, &st.ClassGroupID); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetStudent returns a student by id.
func (r *Repository) GetStudent(ctx context.Context, id string) (Student, error) {
	var st Student
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, user_id, class_group_id FROM students WHERE id = $1`, id).
		Scan(&st.ID, &st.Name, &st.UserID, &st.ClassGroupID)
	if err != nil {
		return Student{}, store.Translate(err)
	}
	return st, nil
}

// UpdateStudent edits name and class group.
func (r *Repository) UpdateStudent(ctx context.Context, st Student) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET name = $2, class_group_id = $3 WHERE id = $1`,
		st.ID, st.Name, st.ClassGroupID)
	if err != nil {
		return store.Translate(err)
	}
	return rowsFound(res)
}

// DeleteStudent removes a student record (the user account stays).
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return store.TranslateDelete(err)
	}
	return rowsFound(res)
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *Repository) SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	return err
}

// GetRefreshToken returns the owner of a live refresh token.
func (r *Repository) GetRefreshToken(ctx context.Context, token string) (userID string, ok bool, err error) {
	var revoked bool
	var expiresAt time.Time
	err = r.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at, revoked FROM refresh_tokens WHERE token = $1`, token).
		Scan(&userID, &expiresAt, &revoked)
	if err != nil {
		if errors.Is(store.Translate(err), store.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if revoked || time.Now().After(expiresAt) {
		return "", false, nil
	}
	return userID, true, nil
}

// RevokeRefreshToken marks a token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
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
