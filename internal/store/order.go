package store

import (
	"context"
	"fmt"
)

// OrderScope identifies a set of siblings that share one display_order
// sequence. Build one with CategoryScope, MissionScope, TaskScope or
// SelectedScope.
type OrderScope struct {
	name  string
	table string
	where string
	args  []any
}

// String names the scope for error messages.
func (o OrderScope) String() string { return o.name }

// CategoryScope orders a user's categories.
func CategoryScope(userID string) OrderScope {
	return OrderScope{
		name:  "categories",
		table: "categories",
		where: "user_id = ?",
		args:  []any{userID},
	}
}

// MissionScope orders a user's live missions within one category, or within
// the uncategorized group when categoryID is nil.
func MissionScope(userID string, categoryID *string) OrderScope {
	if categoryID == nil {
		return OrderScope{
			name:  "missions",
			table: "missions",
			where: "user_id = ? AND category_id IS NULL AND cancelled_at IS NULL",
			args:  []any{userID},
		}
	}
	return OrderScope{
		name:  "missions",
		table: "missions",
		where: "user_id = ? AND category_id = ? AND cancelled_at IS NULL",
		args:  []any{userID, *categoryID},
	}
}

// TaskScope orders the live tasks of one mission.
func TaskScope(missionID string) OrderScope {
	return OrderScope{
		name:  "tasks",
		table: "tasks",
		where: "mission_id = ? AND cancelled_at IS NULL",
		args:  []any{missionID},
	}
}

// SelectedScope orders a user's selected tasks.
func SelectedScope(userID string) OrderScope {
	return OrderScope{
		name:  "selected tasks",
		table: "selected_tasks",
		where: "user_id = ?",
		args:  []any{userID},
	}
}

// NextOrder returns one more than the highest display_order in scope, or 1
// when the scope is empty. Run it in the same transaction as the insert that
// consumes the value.
func (s *SQLStore) NextOrder(ctx context.Context, scope OrderScope) (int, error) {
	if scope.table == "" {
		return 0, fmt.Errorf("next order: empty scope")
	}
	var maxOrder int
	query := "SELECT COALESCE(MAX(display_order), 0) FROM " + scope.table + " WHERE " + scope.where
	if err := s.get(ctx, &maxOrder, query, scope.args...); err != nil {
		return 0, fmt.Errorf("getting max display_order for %s: %w", scope, err)
	}
	return maxOrder + 1, nil
}
