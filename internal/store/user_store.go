package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/missionboard/internal/model"
)

const userColumns = "id, username, password_hash, created_at"

// CreateUser inserts a new user. Generates a UUID if ID is empty.
// Returns ErrDuplicate when the username is taken.
func (s *SQLStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.exec(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating user %q: %w", u.Username, ErrDuplicate)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUserByID returns the user with the given ID, or ErrNotFound.
func (s *SQLStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.get(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByUsername returns the user with the given username, or ErrNotFound.
func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.get(ctx, &u, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}
	return &u, nil
}
