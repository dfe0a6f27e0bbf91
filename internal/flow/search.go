package flow

import (
	"context"
	"slices"

	"github.com/mmynk/triptangle/internal/models"
)

// SearchAPI is the part of the gateway used for user search.
type SearchAPI interface {
	SearchUsers(ctx context.Context, query string, currentUserID int) ([]models.AuthenticatedUser, error)
}

// SearchFlow looks up users to invite. Each query bumps a generation counter; a
// response for an older generation is dropped so a slow early query never
// overwrites the results of a later one.
type SearchFlow struct {
	form
	api      SearchAPI
	sessions Sessions

	gen     uint64
	query   string
	results []models.AuthenticatedUser
}

// NewSearchFlow creates a user search.
func NewSearchFlow(api SearchAPI, sessions Sessions) *SearchFlow {
	return &SearchFlow{api: api, sessions: sessions}
}

// Search runs query. An empty query, or no logged in user, clears the results
// without a backend call. On failure previous results are kept.
func (f *SearchFlow) Search(ctx context.Context, query string) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.query = query
	f.mu.Unlock()

	me, ok := f.sessions.CurrentUser(ctx)
	if query == "" || !ok {
		f.mu.Lock()
		f.results = nil
		f.err = ""
		f.mu.Unlock()
		return nil
	}

	users, err := f.api.SearchUsers(ctx, query, me.ID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return ErrSuperseded
	}
	if err != nil {
		f.err = inlineMessage(err)
		return err
	}
	f.results = users
	f.err = ""
	return nil
}

// Query returns the most recent query.
func (f *SearchFlow) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Results returns the results of the latest completed query.
func (f *SearchFlow) Results() []models.AuthenticatedUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.results)
}
