package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/missionboard/internal/model"
)

const missionColumns = "m.id, m.user_id, m.category_id, m.title, m.state, m.display_order, m.cancelled_at, m.created_at"

// CreateMission inserts a new NOT_STARTED mission. Generates a UUID if ID is
// empty and appends it within its category when DisplayOrder is zero.
func (s *SQLStore) CreateMission(ctx context.Context, m *model.Mission) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()
	if m.State == "" {
		m.State = model.StateNotStarted
	}

	if m.DisplayOrder == 0 {
		order, err := s.NextOrder(ctx, MissionScope(m.UserID, m.CategoryID))
		if err != nil {
			return err
		}
		m.DisplayOrder = order
	}

	_, err := s.exec(ctx, `
		INSERT INTO missions (id, user_id, category_id, title, state, display_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.CategoryID, m.Title, m.State, m.DisplayOrder, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating mission: %w", err)
	}
	return nil
}

// GetMission returns the mission with the given ID, cancelled or not.
func (s *SQLStore) GetMission(ctx context.Context, id string) (*model.Mission, error) {
	var m model.Mission
	err := s.get(ctx, &m, "SELECT "+missionColumns+" FROM missions m WHERE m.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting mission %s: %w", id, err)
	}
	return &m, nil
}

// ListMissions returns a user's live missions ordered by their category's
// display order (uncategorized last), then display_order, then creation time.
func (s *SQLStore) ListMissions(ctx context.Context, userID string) ([]model.Mission, error) {
	var missions []model.Mission
	err := s.selectAll(ctx, &missions, `
		SELECT `+missionColumns+`, c.display_order AS category_order
		FROM missions m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.user_id = ? AND m.cancelled_at IS NULL
		ORDER BY
			CASE WHEN c.display_order IS NULL THEN 1 ELSE 0 END ASC,
			c.display_order ASC,
			m.display_order ASC,
			m.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing missions: %w", err)
	}
	return missions, nil
}

// UpdateMission writes title, category, state, and display order.
func (s *SQLStore) UpdateMission(ctx context.Context, m model.Mission) error {
	err := s.execAffected(ctx, `
		UPDATE missions SET title = ?, category_id = ?, state = ?, display_order = ?
		WHERE id = ?`,
		m.Title, m.CategoryID, m.State, m.DisplayOrder, m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating mission %s: %w", m.ID, err)
	}
	return nil
}

// SetMissionState writes only the mission's state.
func (s *SQLStore) SetMissionState(ctx context.Context, id string, state model.State) error {
	err := s.execAffected(ctx, "UPDATE missions SET state = ? WHERE id = ?", state, id)
	if err != nil {
		return fmt.Errorf("setting mission %s state: %w", id, err)
	}
	return nil
}

// CancelMission soft-deletes a mission. Its tasks are left untouched.
func (s *SQLStore) CancelMission(ctx context.Context, id string, at time.Time) error {
	err := s.execAffected(ctx, "UPDATE missions SET cancelled_at = ? WHERE id = ?", at.UTC(), id)
	if err != nil {
		return fmt.Errorf("cancelling mission %s: %w", id, err)
	}
	return nil
}

// ReopenMissions moves the given missions from COMPLETED to NOT_STARTED and
// returns how many changed. Missions in any other state are skipped.
func (s *SQLStore) ReopenMissions(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := s.in(
		"UPDATE missions SET state = ? WHERE state = ? AND id IN (?)",
		model.StateNotStarted, model.StateCompleted, ids)
	if err != nil {
		return 0, err
	}
	result, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reopening missions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
