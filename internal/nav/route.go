package nav

import "fmt"

// Route is a step pushed on top of the current screen. Routes carry their payload,
// so the preferences step knows which group it belongs to.
type Route interface {
	route()
	String() string
}

// CreateGroup is the group creation form.
type CreateGroup struct{}

// Preferences collects the traveler's preferences for a group they just created or joined.
type Preferences struct {
	GroupID int
}

// Suggestions shows the destinations the backend suggested for a group.
type Suggestions struct {
	GroupID int
}

func (CreateGroup) route() {}
func (Preferences) route() {}
func (Suggestions) route() {}

func (CreateGroup) String() string   { return "create-group" }
func (r Preferences) String() string { return fmt.Sprintf("preferences(%d)", r.GroupID) }
func (r Suggestions) String() string { return fmt.Sprintf("suggestions(%d)", r.GroupID) }
