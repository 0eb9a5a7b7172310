package people

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"labbook/internal/auth"
	"labbook/internal/store"
)

// AccountStore is the persistence surface the credential flow needs.
// *Repository satisfies it.
type AccountStore interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CreateStudentWithUser(ctx context.Context, u User, st Student) (User, Student, error)
	SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (string, bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// TokenConfig carries the signing parameters for issued sessions.
type TokenConfig struct {
	Issuer     string
	SigningKey string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service implements registration, login and token refresh.
type Service struct {
	store      AccountStore
	tokens     TokenConfig
	bcryptCost int
}

// NewService creates a service backed by an account store.
func NewService(store AccountStore, tokens TokenConfig, bcryptCost int) *Service {
	return &Service{store: store, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a user account. Self-serve registration always yields the
// teacher role with no teacher linkage; only an admin may link an account to a
// teacher record, through CreateUser or UpdateUser. A caller-chosen linkage
// here would let anyone claim another teacher's bookings.
func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	if err := validateCredentials(email, password); err != nil {
		return User{}, err
	}
	if name == "" {
		return User{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         auth.RoleTeacher,
	})
}

// CreateUser lets an admin create an account with any role.
func (s *Service) CreateUser(ctx context.Context, name, email, password, role string, teacherID *string) (User, error) {
	if err := validateCredentials(email, password); err != nil {
		return User{}, err
	}
	switch role {
	case auth.RoleAdmin, auth.RoleTeacher, auth.RoleStudent:
	default:
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalid, role)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
		TeacherID:    teacherID,
	})
}

// Login verifies credentials and issues a token pair. The refresh token is
// persisted so it can be rotated and revoked.
func (s *Service) Login(ctx context.Context, email, password string) (User, auth.TokenPair, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return User{}, auth.TokenPair{}, ErrBadCredentials
		}
		return User{}, auth.TokenPair{}, err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return User{}, auth.TokenPair{}, ErrBadCredentials
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates a refresh token: the old token is revoked and a new pair
// issued for its owner.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if _, err := auth.Parse(refreshToken, s.tokens.SigningKey, s.tokens.Issuer); err != nil {
		return auth.TokenPair{}, ErrTokenRevoked
	}
	userID, ok, err := s.store.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !ok {
		return auth.TokenPair{}, ErrTokenRevoked
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.store.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return auth.TokenPair{}, err
	}
	return s.issue(ctx, u)
}

// CreateStudent creates the user account (role student) and the student
// record atomically.
func (s *Service) CreateStudent(ctx context.Context, name, email, password string, classGroupID *string) (User, Student, error) {
	if err := validateCredentials(email, password); err != nil {
		return User{}, Student{}, err
	}
	if name == "" {
		return User{}, Student{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return User{}, Student{}, err
	}
	u := User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         auth.RoleStudent,
	}
	st := Student{Name: name, ClassGroupID: classGroupID}
	return s.store.CreateStudentWithUser(ctx, u, st)
}

func (s *Service) issue(ctx context.Context, u User) (auth.TokenPair, error) {
	teacherID := ""
	if u.TeacherID != nil {
		teacherID = *u.TeacherID
	}
	pair, err := auth.Issue(u.ID, u.Role, teacherID, s.tokens.Issuer, s.tokens.SigningKey, s.tokens.AccessTTL, s.tokens.RefreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.store.SaveRefreshToken(ctx, u.ID, pair.RefreshToken, pair.RefreshExp); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email required", ErrInvalid)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
	}
	return nil
}
