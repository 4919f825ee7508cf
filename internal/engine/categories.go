package engine

import (
	"context"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// CategoryUpdate carries optional category changes. Nil fields are unchanged.
type CategoryUpdate struct {
	Name         *string
	Color        *string
	DisplayOrder *int
}

// ListCategories returns the user's categories in display order.
func (s *Service) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// CreateCategory appends a new category to the user's list.
func (s *Service) CreateCategory(ctx context.Context, userID, name, color string) (*model.Category, error) {
	name, err := normalizeTitle("name", name)
	if err != nil {
		return nil, err
	}
	if err := validateColor("color", color); err != nil {
		return nil, err
	}

	c := &model.Category{UserID: userID, Name: name, Color: color}
	err = s.store.RunAtomic(ctx, func(st store.Store) error {
		return st.CreateCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory renames, recolors, or reorders a category.
func (s *Service) UpdateCategory(ctx context.Context, userID, id string, upd CategoryUpdate) (*model.Category, error) {
	if upd.Name != nil {
		name, err := normalizeTitle("name", *upd.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if upd.Color != nil {
		if err := validateColor("color", *upd.Color); err != nil {
			return nil, err
		}
	}

	var out *model.Category
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		c, err := ownedCategory(ctx, st, userID, id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Color != nil {
			c.Color = *upd.Color
		}
		if upd.DisplayOrder != nil {
			c.DisplayOrder = *upd.DisplayOrder
		}
		if err := st.UpdateCategory(ctx, *c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCategory hard-deletes a category; its missions become uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) error {
	return s.store.RunAtomic(ctx, func(st store.Store) error {
		if _, err := ownedCategory(ctx, st, userID, id); err != nil {
			return err
		}
		return st.DeleteCategory(ctx, id)
	})
}
