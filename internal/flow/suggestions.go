package flow

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mmynk/triptangle/internal/models"
)

// AnalyzeAPI is the part of the gateway that produces destination suggestions.
type AnalyzeAPI interface {
	AnalyzeGroup(ctx context.Context, groupID int) (*models.AnalyzeResponse, error)
}

// SuggestionsFlow pages through the destinations suggested for a group. Votes are
// counted locally only.
type SuggestionsFlow struct {
	form
	api AnalyzeAPI

	GroupID int

	loaded       bool
	travelMonth  string
	destinations []models.Destination
	page         int
}

// NewSuggestionsFlow creates the suggestion pager for groupID.
func NewSuggestionsFlow(api AnalyzeAPI, groupID int) *SuggestionsFlow {
	return &SuggestionsFlow{api: api, GroupID: groupID}
}

// Load fetches suggestions and rewinds to the first one. On failure any previously
// loaded suggestions are kept.
func (f *SuggestionsFlow) Load(ctx context.Context) error {
	if !f.guard.TryBegin() {
		return ErrBusy
	}
	defer f.guard.End()

	resp, err := f.api.AnalyzeGroup(ctx, f.GroupID)
	if err != nil {
		return f.fail(err)
	}

	f.mu.Lock()
	f.loaded = true
	f.travelMonth = resp.AggregatedPreferences.TravelMonth
	f.destinations = slices.Clone(resp.SuggestedDestinations)
	f.page = 0
	f.err = ""
	f.mu.Unlock()
	return nil
}

// Loaded reports whether a Load has succeeded.
func (f *SuggestionsFlow) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

// Destinations returns every loaded destination with its local vote count.
func (f *SuggestionsFlow) Destinations() []models.Destination {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.destinations)
}

// Current returns the destination on screen. ok is false once every suggestion has
// been skipped or voted on.
func (f *SuggestionsFlow) Current() (dest models.Destination, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.page >= len(f.destinations) {
		return models.Destination{}, false
	}
	return f.destinations[f.page], true
}

// Done reports whether the pager has moved past the last suggestion.
func (f *SuggestionsFlow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded && f.page >= len(f.destinations)
}

// Skip moves to the next suggestion.
func (f *SuggestionsFlow) Skip() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advanceLocked()
}

// Vote adds one vote to the current suggestion and moves on. It returns the
// destination voted for.
func (f *SuggestionsFlow) Vote() (models.Destination, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.page >= len(f.destinations) {
		return models.Destination{}, false
	}
	f.destinations[f.page].Votes.Number++
	voted := f.destinations[f.page]
	f.advanceLocked()
	return voted, true
}

func (f *SuggestionsFlow) advanceLocked() {
	if f.page < len(f.destinations) {
		f.page++
	}
}

// MonthLabel renders the group's travel month as "August 2025". Unparsable months
// are returned as sent.
func (f *SuggestionsFlow) MonthLabel() string {
	f.mu.Lock()
	month := f.travelMonth
	f.mu.Unlock()
	return monthLabel(month)
}

// Details is the one-line price summary of dest.
func (f *SuggestionsFlow) Details(dest models.Destination) string {
	return fmt.Sprintf("$%d • %s", dest.EstimatedPrice, f.MonthLabel())
}

func monthLabel(s string) string {
	ym, err := models.ParseYearMonth(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%s %d", time.Month(ym.Month), ym.Year)
}
