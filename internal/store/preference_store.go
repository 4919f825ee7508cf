package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/missionboard/internal/model"
)

const preferenceColumns = `user_id, primary_color, background_base_color,
	background_surface_color, accent_color, created_at, updated_at`

// GetPreferences returns the user's stored preferences, or ErrNotFound.
func (s *SQLStore) GetPreferences(ctx context.Context, userID string) (*model.UserPreferences, error) {
	var p model.UserPreferences
	err := s.get(ctx, &p, "SELECT "+preferenceColumns+" FROM user_preferences WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("getting preferences for user %s: %w", userID, err)
	}
	return &p, nil
}

// CreatePreferences inserts the user's preference row. An existing row is
// left as is.
func (s *SQLStore) CreatePreferences(ctx context.Context, p *model.UserPreferences) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.exec(ctx, `
		INSERT INTO user_preferences (`+preferenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		p.UserID, p.PrimaryColor, p.BackgroundBaseColor,
		p.BackgroundSurfaceColor, p.AccentColor, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating preferences for user %s: %w", p.UserID, err)
	}
	return nil
}

// UpdatePreferences overwrites all four colors.
func (s *SQLStore) UpdatePreferences(ctx context.Context, p model.UserPreferences) error {
	err := s.execAffected(ctx, `
		UPDATE user_preferences SET
			primary_color = ?, background_base_color = ?,
			background_surface_color = ?, accent_color = ?, updated_at = ?
		WHERE user_id = ?`,
		p.PrimaryColor, p.BackgroundBaseColor, p.BackgroundSurfaceColor,
		p.AccentColor, time.Now().UTC(), p.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating preferences for user %s: %w", p.UserID, err)
	}
	return nil
}
