package engine

import (
	"context"
	"errors"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// GetPreferences returns the user's theme colors, creating the default row
// on first access.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*model.UserPreferences, error) {
	var out *model.UserPreferences
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		p, err := loadPreferences(ctx, st, userID)
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePreferences applies the provided colors. Every provided color is
// validated before anything is written.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, patch model.PreferencesPatch) (*model.UserPreferences, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"primary_color", patch.PrimaryColor},
		{"background_base_color", patch.BackgroundBaseColor},
		{"background_surface_color", patch.BackgroundSurfaceColor},
		{"accent_color", patch.AccentColor},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := validateColor(f.name, *f.value); err != nil {
			return nil, err
		}
	}

	var out *model.UserPreferences
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		p, err := loadPreferences(ctx, st, userID)
		if err != nil {
			return err
		}
		if patch.PrimaryColor != nil {
			p.PrimaryColor = *patch.PrimaryColor
		}
		if patch.BackgroundBaseColor != nil {
			p.BackgroundBaseColor = *patch.BackgroundBaseColor
		}
		if patch.BackgroundSurfaceColor != nil {
			p.BackgroundSurfaceColor = *patch.BackgroundSurfaceColor
		}
		if patch.AccentColor != nil {
			p.AccentColor = *patch.AccentColor
		}
		if err := st.UpdatePreferences(ctx, *p); err != nil {
			return err
		}
		out, err = st.GetPreferences(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadPreferences(ctx context.Context, st store.Store, userID string) (*model.UserPreferences, error) {
	p, err := st.GetPreferences(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	defaults := model.DefaultPreferences(userID)
	if err := st.CreatePreferences(ctx, &defaults); err != nil {
		return nil, err
	}
	return st.GetPreferences(ctx, userID)
}
