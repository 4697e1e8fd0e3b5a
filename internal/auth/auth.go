// Package auth manages user accounts and bearer-token sessions in
// PostgreSQL. Passwords are stored as bcrypt hashes; session tokens are
// opaque 256-bit random values that expire after 24 hours.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/robobook/backend/internal/log"
)

// SessionDuration is how long an auth session stays valid.
const SessionDuration = 24 * time.Hour

const sessionTokenBytes = 32

// Sentinel errors for authentication operations.
var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates the email/password pair does not
	// match a user. Deliberately does not distinguish unknown email from
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionNotFound indicates the token is unknown or expired.
	ErrSessionNotFound = errors.New("auth session not found or expired")

	// ErrUserNotFound indicates no user exists with the given ID.
	ErrUserNotFound = errors.New("user not found")
)

// DB is the database access needed by Service. *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// User is a registered account. The password hash never leaves the package.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Service implements account and session management.
// Service is safe for concurrent use by multiple goroutines.
type Service struct {
	db     DB
	logger log.Logger
	now    func() time.Time
}

// NewService creates an auth service backed by db.
func NewService(db DB, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{db: db, logger: logger, now: time.Now}
}

// CreateUser registers a new account. The name defaults to the local part
// of the email when empty. Returns ErrEmailTaken for duplicate emails.
func (s *Service) CreateUser(ctx context.Context, email, password, name string) (*User, error) {
	if name == "" {
		name = defaultName(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		user.ID, user.Email, user.Name, string(hash), user.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies an email/password pair and returns the user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var (
		user User
		hash string
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, email_verified, created_at
		FROM users WHERE lower(email) = lower($1)`,
		email).Scan(&user.ID, &user.Email, &user.Name, &hash, &user.EmailVerified, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CreateSession issues a new session token for userID.
func (s *Service) CreateSession(ctx context.Context, userID, ipAddress, userAgent string) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	_, err = s.db.Exec(ctx, `
		INSERT INTO auth_sessions (id, token, user_id, expires_at, created_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), token, userID, now.Add(SessionDuration), now,
		nullable(ipAddress), nullable(userAgent))
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return token, nil
}

// ValidateSession resolves a token to its user. Expired sessions are
// deleted on access and reported as ErrSessionNotFound.
func (s *Service) ValidateSession(ctx context.Context, token string) (*User, error) {
	var (
		user      User
		expiresAt time.Time
	)
	err := s.db.QueryRow(ctx, `
		SELECT u.id, u.email, u.name, u.email_verified, u.created_at, s.expires_at
		FROM auth_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`,
		token).Scan(&user.ID, &user.Email, &user.Name, &user.EmailVerified, &user.CreatedAt, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if s.now().After(expiresAt) {
		if _, err := s.db.Exec(ctx, `DELETE FROM auth_sessions WHERE token = $1`, token); err != nil {
			s.logger.Warn("deleting expired session failed", "error", err)
		}
		return nil, ErrSessionNotFound
	}
	return &user, nil
}

// InvalidateSession deletes a session token. Reports whether a session
// was actually removed.
func (s *Service) InvalidateSession(ctx context.Context, token string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM auth_sessions WHERE token = $1`, token)
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InvalidateAllUserSessions removes every session belonging to userID and
// returns how many were deleted.
func (s *Service) InvalidateAllUserSessions(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM auth_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting user sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetUser returns the user with the given ID, or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, name, email_verified, created_at
		FROM users WHERE id = $1`,
		userID).Scan(&user.ID, &user.Email, &user.Name, &user.EmailVerified, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

// EmailExists reports whether an account with this email already exists.
// The check is case-insensitive.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return exists, nil
}

// CleanupExpiredSessions removes every expired session and returns how
// many were deleted. Intended to run periodically.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at < $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func defaultName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
