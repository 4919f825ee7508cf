package engine

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// Options tunes engine behavior.
type Options struct {
	// ReopenMissionsOnReset makes the daily reset also reopen completed
	// missions whose selected tasks it moved back to NOT_STARTED.
	ReopenMissionsOnReset bool

	// Now overrides the clock used for cancellation timestamps.
	Now func() time.Time
}

// Service applies every mutation of categories, missions, tasks, the focus
// list, and preferences, keeping derived mission state consistent. Each
// operation takes the acting user's ID and re-checks ownership.
type Service struct {
	store store.Store
	opts  Options
}

// NewService returns a Service backed by st.
func NewService(st store.Store, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: st, opts: opts}
}

// Store returns the underlying store.
func (s *Service) Store() store.Store { return s.store }

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func normalizeTitle(field, title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ValidationError{Field: field, Msg: "is required"}
	}
	return t, nil
}

func validateColor(field, color string) error {
	if !colorPattern.MatchString(color) {
		return ValidationError{Field: field, Msg: "must be a hex color like #RRGGBB"}
	}
	return nil
}

func validateState(state model.State) error {
	if !state.Valid() {
		return ValidationError{Field: "state", Msg: "must be NOT_STARTED or COMPLETED"}
	}
	return nil
}

// ownedCategory loads a category and checks it belongs to userID.
func ownedCategory(ctx context.Context, st store.Store, userID, id string) (*model.Category, error) {
	c, err := st.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, unauthorized("category", id)
	}
	return c, nil
}

// ownedMission loads a live mission and checks it belongs to userID.
func ownedMission(ctx context.Context, st store.Store, userID, id string) (*model.Mission, error) {
	m, err := st.GetMission(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, unauthorized("mission", id)
	}
	if m.IsCancelled() {
		return nil, notFound("mission", id)
	}
	return m, nil
}

// ownedTask loads a live task together with its live mission and checks the
// mission belongs to userID.
func ownedTask(ctx context.Context, st store.Store, userID, id string) (*model.Task, *model.Mission, error) {
	t, err := st.GetTask(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	m, err := st.GetMission(ctx, t.MissionID)
	if err != nil {
		return nil, nil, err
	}
	if m.UserID != userID {
		return nil, nil, unauthorized("task", id)
	}
	if t.IsCancelled() || m.IsCancelled() {
		return nil, nil, notFound("task", id)
	}
	return t, m, nil
}
