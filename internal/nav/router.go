package nav

import (
	"log/slog"
	"slices"
	"sync"
)

// State is a snapshot of the navigation state.
type State struct {
	Screen Screen
	// Stack holds the routes pushed on top of Screen, oldest first.
	Stack []Route
}

// Top returns the most recently pushed route, or nil when the stack is empty.
func (s State) Top() Route {
	if len(s.Stack) == 0 {
		return nil
	}
	return s.Stack[len(s.Stack)-1]
}

// Action is a named navigation request handled by Router.Dispatch.
type Action interface {
	action()
}

// GoTo makes Screen the active screen and clears the push stack.
type GoTo struct {
	Screen Screen
}

// Push adds a route on top of the current screen.
type Push struct {
	Route Route
}

// Pop removes the top route. Popping an empty stack does nothing.
type Pop struct{}

func (GoTo) action() {}
func (Push) action() {}
func (Pop) action()  {}

// Router owns the navigation state. Every action is legal from every state; there is
// no transition table. Subscribers are notified after each action with the new state.
//
// Router is safe for concurrent use so network completions may navigate directly.
type Router struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewRouter creates a router on the splash screen.
func NewRouter() *Router {
	return &Router{
		state: State{Screen: Splash},
		subs:  make(map[int]func(State)),
	}
}

// Current returns a snapshot of the navigation state.
func (r *Router) Current() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Screen returns the active screen.
func (r *Router) Screen() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Screen
}

// Subscribe registers fn to be called with the new state after every action.
// The returned function removes the subscription.
func (r *Router) Subscribe(fn func(State)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Dispatch applies an action and notifies subscribers.
func (r *Router) Dispatch(a Action) {
	r.mu.Lock()
	switch a := a.(type) {
	case GoTo:
		r.state.Screen = a.Screen
		r.state.Stack = nil
	case Push:
		r.state.Stack = append(r.state.Stack, a.Route)
	case Pop:
		if n := len(r.state.Stack); n > 0 {
			r.state.Stack = r.state.Stack[:n-1]
		}
	default:
		r.mu.Unlock()
		slog.Warn("Ignoring unknown navigation action", "action", a)
		return
	}
	snapshot := r.snapshotLocked()
	subs := make([]func(State), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	slog.Debug("Navigated", "screen", snapshot.Screen, "top", snapshot.Top())
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (r *Router) snapshotLocked() State {
	return State{Screen: r.state.Screen, Stack: slices.Clone(r.state.Stack)}
}

func (r *Router) GoToSplash()       { r.Dispatch(GoTo{Screen: Splash}) }
func (r *Router) GoToWelcome()      { r.Dispatch(GoTo{Screen: Welcome}) }
func (r *Router) GoToLogin()        { r.Dispatch(GoTo{Screen: Login}) }
func (r *Router) GoToSignup()       { r.Dispatch(GoTo{Screen: Signup}) }
func (r *Router) GoToMain()         { r.Dispatch(GoTo{Screen: Main}) }
func (r *Router) GoToNotification() { r.Dispatch(GoTo{Screen: Notification}) }
func (r *Router) GoToMenu()         { r.Dispatch(GoTo{Screen: Menu}) }
func (r *Router) GoToOffline()      { r.Dispatch(GoTo{Screen: Offline}) }

// Push adds route on top of the current screen.
func (r *Router) Push(route Route) { r.Dispatch(Push{Route: route}) }

// Pop removes the top route.
func (r *Router) Pop() { r.Dispatch(Pop{}) }
