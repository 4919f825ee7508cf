package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// RegisterUser creates an account. passwordHash must already be hashed.
// A taken username is reported as a ValidationError.
func (s *Service) RegisterUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ValidationError{Field: "username", Msg: "is required"}
	}
	if passwordHash == "" {
		return nil, ValidationError{Field: "password", Msg: "is required"}
	}

	u := &model.User{Username: username, PasswordHash: passwordHash}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ValidationError{Field: "username", Msg: "already exists"}
		}
		return nil, err
	}
	return u, nil
}

// GetUser returns the user with the given ID.
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// UserByName returns the user with the given username.
func (s *Service) UserByName(ctx context.Context, username string) (*model.User, error) {
	return s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
}
