package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/missionboard/internal/model"
)

const categoryColumns = "id, user_id, name, color, display_order, created_at"

// CreateCategory inserts a new category. Generates a UUID if ID is empty and
// appends it to the owner's categories when DisplayOrder is zero.
func (s *SQLStore) CreateCategory(ctx context.Context, c *model.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()

	if c.DisplayOrder == 0 {
		order, err := s.NextOrder(ctx, CategoryScope(c.UserID))
		if err != nil {
			return err
		}
		c.DisplayOrder = order
	}

	_, err := s.exec(ctx, `
		INSERT INTO categories (id, user_id, name, color, display_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Color, c.DisplayOrder, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}
	return nil
}

// GetCategory returns the category with the given ID, or ErrNotFound.
func (s *SQLStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := s.get(ctx, &c, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting category %s: %w", id, err)
	}
	return &c, nil
}

// ListCategories returns a user's categories ordered by display_order then
// creation time.
func (s *SQLStore) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	var categories []model.Category
	err := s.selectAll(ctx, &categories, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = ?
		ORDER BY display_order ASC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory updates name, color, and display order.
func (s *SQLStore) UpdateCategory(ctx context.Context, c model.Category) error {
	err := s.execAffected(ctx, `
		UPDATE categories SET name = ?, color = ?, display_order = ?
		WHERE id = ?`,
		c.Name, c.Color, c.DisplayOrder, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating category %s: %w", c.ID, err)
	}
	return nil
}

// DeleteCategory hard-deletes a category. Missions that referenced it become
// uncategorized.
func (s *SQLStore) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.exec(ctx,
		"UPDATE missions SET category_id = NULL WHERE category_id = ?", id); err != nil {
		return fmt.Errorf("detaching missions from category %s: %w", id, err)
	}

	err := s.execAffected(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}
	return nil
}
