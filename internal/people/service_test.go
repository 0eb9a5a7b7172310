package people

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"labbook/internal/auth"
	"labbook/internal/store"
)

type fakeAccounts struct {
	mu       sync.Mutex
	users    map[string]User // by id
	byEmail  map[string]string
	students map[string]Student
	tokens   map[string]struct {
		userID  string
		exp     time.Time
		revoked bool
	}
	failStudentInsert bool
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		users:    map[string]User{},
		byEmail:  map[string]string{},
		students: map[string]Student{},
		tokens: map[string]struct {
			userID  string
			exp     time.Time
			revoked bool
		}{},
	}
}

func (f *fakeAccounts) CreateUser(_ context.Context, u User) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.byEmail[u.Email]; dup {
		return User{}, store.ErrConflict
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.users[u.ID] = u
	f.byEmail[u.Email] = u.ID
	return u, nil
}

func (f *fakeAccounts) GetUser(_ context.Context, id string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeAccounts) GetUserByEmail(_ context.Context, email string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return User{}, store.ErrNotFound
	}
	return f.users[id], nil
}

func (f *fakeAccounts) CreateStudentWithUser(_ context.Context, u User, st Student) (User, Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.byEmail[u.Email]; dup {
		return User{}, Student{}, store.ErrConflict
	}
	if f.failStudentInsert {
		// The transaction rolls back: neither row lands.
		return User{}, Student{}, errors.New("student insert failed")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	st.UserID = u.ID
	f.users[u.ID] = u
	f.byEmail[u.Email] = u.ID
	f.students[st.ID] = st
	return u, st, nil
}

func (f *fakeAccounts) SaveRefreshToken(_ context.Context, userID, token string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = struct {
		userID  string
		exp     time.Time
		revoked bool
	}{userID, exp, false}
	return nil
}

func (f *fakeAccounts) GetRefreshToken(_ context.Context, token string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok || t.revoked || time.Now().After(t.exp) {
		return "", false, nil
	}
	return t.userID, true, nil
}

func (f *fakeAccounts) RevokeRefreshToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if ok {
		t.revoked = true
		f.tokens[token] = t
	}
	return nil
}

func testService(fs *fakeAccounts) *Service {
	return NewService(fs, TokenConfig{
		Issuer:     "labbook-test",
		SigningKey: "test-signing-key",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, 4) // minimum bcrypt cost keeps tests fast
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := testService(newFakeAccounts())

	u, err := svc.Register(ctx, "Ada", "ada@school.edu", "correct-horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != auth.RoleTeacher {
		t.Errorf("self-serve role = %s, want teacher", u.Role)
	}
	if u.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}

	got, pair, err := svc.Login(ctx, "ada@school.edu", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("login returned wrong user or empty tokens")
	}

	claims, err := auth.Parse(pair.AccessToken, "test-signing-key", "labbook-test")
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != auth.RoleTeacher {
		t.Errorf("claims = %+v, want user %s role teacher", claims, u.ID)
	}
}

func TestRegisterGrantsNoTeacherLinkage(t *testing.T) {
	ctx := context.Background()
	svc := testService(newFakeAccounts())

	u, err := svc.Register(ctx, "Mallory", "mallory@school.edu", "correct-horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.TeacherID != nil {
		t.Errorf("self-serve account linked to teacher %q", *u.TeacherID)
	}

	_, pair, err := svc.Login(ctx, "mallory@school.edu", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := auth.Parse(pair.AccessToken, "test-signing-key", "labbook-test")
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.TeacherID != "" {
		t.Errorf("self-serve claims carry teacher id %q; booking ownership would leak", claims.TeacherID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := testService(newFakeAccounts())
	if _, err := svc.Register(ctx, "Ada", "ada@school.edu", "correct-horse"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "ada@school.edu", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@school.edu", "correct-horse"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email err = %v, want ErrBadCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := testService(newFakeAccounts())
	if _, err := svc.Register(ctx, "Ada", "not-an-email", "correct-horse"); !errors.Is(err, ErrInvalid) {
		t.Errorf("bad email err = %v, want ErrInvalid", err)
	}
	if _, err := svc.Register(ctx, "Ada", "ada@school.edu", "short"); !errors.Is(err, ErrInvalid) {
		t.Errorf("short password err = %v, want ErrInvalid", err)
	}
	if _, err := svc.Register(ctx, "", "ada@school.edu", "correct-horse"); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty name err = %v, want ErrInvalid", err)
	}
}

func TestRefreshRotates(t *testing.T) {
	ctx := context.Background()
	svc := testService(newFakeAccounts())
	if _, err := svc.Register(ctx, "Ada", "ada@school.edu", "correct-horse"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, pair, err := svc.Login(ctx, "ada@school.edu", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.AccessToken == "" {
		t.Error("refresh issued empty access token")
	}

	// The old token was revoked by the rotation.
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("reused token err = %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := testService(newFakeAccounts())
	if _, err := svc.Refresh(context.Background(), "not-a-jwt"); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("garbage token err = %v, want ErrTokenRevoked", err)
	}
}

func TestCreateStudentAtomic(t *testing.T) {
	ctx := context.Background()
	fs := newFakeAccounts()
	svc := testService(fs)

	u, st, err := svc.CreateStudent(ctx, "Sam", "sam@school.edu", "longenough", nil)
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	if u.Role != auth.RoleStudent {
		t.Errorf("role = %s, want student", u.Role)
	}
	if st.UserID != u.ID {
		t.Errorf("student.UserID = %s, want %s", st.UserID, u.ID)
	}

	fs.failStudentInsert = true
	if _, _, err := svc.CreateStudent(ctx, "Pat", "pat@school.edu", "longenough", nil); err == nil {
		t.Fatal("expected failure")
	}
	if _, ok := fs.byEmail["pat@school.edu"]; ok {
		t.Error("user row leaked past a failed student insert")
	}
}
