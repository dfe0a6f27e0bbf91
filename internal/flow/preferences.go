package flow

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/internal/nav"
)

// JoinAPI is the part of the gateway used to join a group.
type JoinAPI interface {
	JoinGroup(ctx context.Context, groupID int, req models.GroupJoinRequest) error
}

// PreferencesFlow collects a traveler's preferences for a group and joins it.
type PreferencesFlow struct {
	form
	api      JoinAPI
	sessions Sessions
	nav      Navigator

	GroupID int
	// Budget is the raw budget text. Blank or non-numeric text means no budget.
	Budget  string
	Weather string
	Month   models.YearMonth

	interests map[string]struct{}
}

// NewPreferencesFlow creates the form for groupID, preset to warm weather and the
// month of now.
func NewPreferencesFlow(api JoinAPI, sessions Sessions, navigator Navigator, groupID int, now time.Time) *PreferencesFlow {
	return &PreferencesFlow{
		api:       api,
		sessions:  sessions,
		nav:       navigator,
		GroupID:   groupID,
		Weather:   models.WeatherWarm,
		Month:     models.YearMonth{Year: now.Year(), Month: int(now.Month())},
		interests: make(map[string]struct{}),
	}
}

// ToggleInterest selects or deselects an interest tag and reports whether it is
// selected afterwards.
func (f *PreferencesFlow) ToggleInterest(tag string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.interests[tag]; ok {
		delete(f.interests, tag)
		return false
	}
	f.interests[tag] = struct{}{}
	return true
}

// Interests returns the selected tags in catalog order. Tags outside the catalog
// follow, sorted.
func (f *PreferencesFlow) Interests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.interests))
	for _, tag := range models.InterestOptions {
		if _, ok := f.interests[tag]; ok {
			out = append(out, tag)
		}
	}
	var extra []string
	for tag := range f.interests {
		if !slices.Contains(models.InterestOptions, tag) {
			extra = append(extra, tag)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// ParseBudget converts budget text to a number. Blank or non-numeric text yields nil.
func ParseBudget(text string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &n
}

// Request builds the join request for userID from the current selections.
func (f *PreferencesFlow) Request(userID int) (models.GroupJoinRequest, error) {
	if err := f.Month.Validate(); err != nil {
		return models.GroupJoinRequest{}, err
	}
	return models.GroupJoinRequest{
		UserID: userID,
		Preferences: models.Preferences{
			Interests: f.Interests(),
			MaxBudget: ParseBudget(f.Budget),
			Weather:   f.Weather,
			Date:      f.Month.String(),
		},
	}, nil
}

// Submit joins the group with the collected preferences and pushes the suggestions
// step. Without a logged in user it fails with ErrLoginRequired and sends nothing.
func (f *PreferencesFlow) Submit(ctx context.Context) error {
	if !f.guard.TryBegin() {
		return ErrBusy
	}
	defer f.guard.End()

	me, ok := f.sessions.CurrentUser(ctx)
	if !ok {
		return f.fail(ErrLoginRequired)
	}

	req, err := f.Request(me.ID)
	if err != nil {
		return f.fail(err)
	}
	if err := f.api.JoinGroup(ctx, f.GroupID, req); err != nil {
		return f.fail(err)
	}

	f.succeed()
	f.nav.Push(nav.Suggestions{GroupID: f.GroupID})
	return nil
}
