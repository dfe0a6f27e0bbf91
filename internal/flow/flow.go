// Package flow holds the per-screen form state of the client. A flow accumulates the
// user's selections, validates them, submits a single backend call and, on success,
// updates the session or moves navigation forward.
//
// Flows never clear user input on failure. The last failure is kept as inline text
// (Err) until the next successful submission.
package flow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/internal/nav"
)

var (
	// ErrBusy is returned when a submission is attempted while another is in flight.
	ErrBusy = errors.New("submission already in progress")
	// ErrLoginRequired is returned when a flow needs the current user and there is none.
	ErrLoginRequired = errors.New("login required")
	// ErrMissingFields is returned when required form fields are blank.
	ErrMissingFields = errors.New("required fields are missing")
	// ErrNameRequired is returned when a group is submitted without a name.
	ErrNameRequired = errors.New("group name is required")
	// ErrSuperseded is returned by a search whose response arrived after a newer query.
	ErrSuperseded = errors.New("search superseded by a newer query")
)

// Sessions is the part of the session store flows use.
type Sessions interface {
	Save(ctx context.Context, user models.AuthenticatedUser, token string) error
	CurrentUser(ctx context.Context) (*models.AuthenticatedUser, bool)
}

// Navigator moves the app between screens.
type Navigator interface {
	GoToMain()
	Push(route nav.Route)
}

// Guard gates a submit action so only one submission runs at a time.
type Guard struct {
	busy atomic.Bool
}

// TryBegin marks the guard busy. It returns false if it already was.
func (g *Guard) TryBegin() bool {
	return g.busy.CompareAndSwap(false, true)
}

// End releases the guard.
func (g *Guard) End() {
	g.busy.Store(false)
}

// Busy reports whether a submission is in flight.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}

// form is the state every flow shares: a re-entrancy guard and the inline error.
type form struct {
	guard Guard
	mu    sync.Mutex
	err   string
}

// Err returns the inline error text of the last failed submission, or "".
func (f *form) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Submitting reports whether a submission is in flight.
func (f *form) Submitting() bool {
	return f.guard.Busy()
}

// fail records err as inline text and returns it.
func (f *form) fail(err error) error {
	f.mu.Lock()
	f.err = inlineMessage(err)
	f.mu.Unlock()
	return err
}

func (f *form) succeed() {
	f.mu.Lock()
	f.err = ""
	f.mu.Unlock()
}

// inlineMessage converts err to the text shown next to the form. Gateway errors
// already carry display text (the raw backend body or a fallback).
func inlineMessage(err error) string {
	switch {
	case errors.Is(err, ErrLoginRequired):
		return "Login required"
	case errors.Is(err, ErrMissingFields):
		return "Please fill in all required fields."
	case errors.Is(err, ErrNameRequired):
		return "Please enter a group name."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish."
	default:
		return err.Error()
	}
}
