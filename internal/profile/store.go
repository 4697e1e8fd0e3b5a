// Package profile persists user background profiles and exposes the derived
// read-only views (skill tier, hardware capability) used for
// personalization.
//
// A profile is created exactly once per user, immediately after account
// creation, and never mutated afterwards; there is no update path.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/robobook/backend/internal/log"
)

// Sentinel errors for profile operations.
var (
	// ErrNotFound indicates no profile exists for the user.
	ErrNotFound = errors.New("profile not found")

	// ErrAlreadyExists indicates a profile was already created for the user.
	ErrAlreadyExists = errors.New("profile already exists")
)

// DB is the database access needed by Store. *pgxpool.Pool satisfies it.
// Following Go best practices: interfaces are defined by the consumer.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Profile is a user's finalized questionnaire data.
type Profile struct {
	UserID    string         `json:"user_id"`
	Software  map[string]any `json:"software_background"`
	Hardware  map[string]any `json:"hardware_background"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store manages profile persistence in PostgreSQL.
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     DB
	logger log.Logger
}

// NewStore creates a profile store backed by db.
func NewStore(db DB, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Create persists a new profile for userID. Returns ErrAlreadyExists when a
// profile is already present; the existing row is left untouched.
func (s *Store) Create(ctx context.Context, userID string, software, hardware map[string]any) (*Profile, error) {
	softwareJSON, err := json.Marshal(software)
	if err != nil {
		return nil, fmt.Errorf("marshaling software background: %w", err)
	}
	hardwareJSON, err := json.Marshal(hardware)
	if err != nil {
		return nil, fmt.Errorf("marshaling hardware background: %w", err)
	}

	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		INSERT INTO profiles (user_id, software_background, hardware_background, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, softwareJSON, hardwareJSON, now)
	if err != nil {
		return nil, fmt.Errorf("inserting profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAlreadyExists
	}

	s.logger.Debug("profile created", "user_id", userID)
	return &Profile{
		UserID:    userID,
		Software:  software,
		Hardware:  hardware,
		CreatedAt: now,
	}, nil
}

// Get returns the profile for userID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (*Profile, error) {
	var (
		p            Profile
		softwareJSON []byte
		hardwareJSON []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT user_id, software_background, hardware_background, created_at
		FROM profiles WHERE user_id = $1`,
		userID).Scan(&p.UserID, &softwareJSON, &hardwareJSON, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	if err := json.Unmarshal(softwareJSON, &p.Software); err != nil {
		return nil, fmt.Errorf("decoding software background: %w", err)
	}
	if err := json.Unmarshal(hardwareJSON, &p.Hardware); err != nil {
		return nil, fmt.Errorf("decoding hardware background: %w", err)
	}
	return &p, nil
}

// Exists reports whether a profile is present for userID.
func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking profile existence: %w", err)
	}
	return exists, nil
}

// Skills returns the derived skills view for userID.
func (s *Store) Skills(ctx context.Context, userID string) (*Skills, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	skills := SkillsOf(p.Software)
	return &skills, nil
}

// HardwareCapabilities returns the derived hardware view for userID.
func (s *Store) HardwareCapabilities(ctx context.Context, userID string) (*HardwareCapabilities, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	caps := HardwareCapabilitiesOf(p.Hardware)
	return &caps, nil
}
