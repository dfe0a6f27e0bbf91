package fakeapi

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/mmynk/triptangle/internal/auth"
	"github.com/mmynk/triptangle/internal/models"
)

var (
	errGroupNotFound   = errors.New("Group not found")
	errInviteNotFound  = errors.New("Invite not found")
	errAlreadyInvited  = errors.New("User already invited.")
	errAlreadyAccepted = errors.New("Invite already accepted")
)

// member is one row of group membership with the preferences submitted on join.
// Preferences are kept as a loose map, as the backend stores them as JSON.
type member struct {
	UserID      int
	Preferences map[string]any
}

// Store is the in-memory state of the fake backend. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	users   map[int]*auth.UserRecord
	groups  map[int]*models.GroupOut
	members map[int][]member
	invites map[int]*models.Invite

	nextUserID   int
	nextGroupID  int
	nextInviteID int
}

var _ auth.UserStorage = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:   make(map[int]*auth.UserRecord),
		groups:  make(map[int]*models.GroupOut),
		members: make(map[int][]member),
		invites: make(map[int]*models.Invite),
	}
}

// CreateUser stores rec and assigns its ID.
func (s *Store) CreateUser(_ context.Context, rec *auth.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	rec.User.ID = s.nextUserID
	stored := *rec
	s.users[stored.User.ID] = &stored
	return nil
}

// GetUserByEmail returns nil, nil when no user has that email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*auth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.users {
		if rec.User.Email == email {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

// GetUserByUsername returns nil, nil when no user has that username.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*auth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.users {
		if rec.User.Username == username {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) getUser(id int) (models.AuthenticatedUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return models.AuthenticatedUser{}, false
	}
	return rec.User, true
}

// searchUsers does a case-insensitive substring match on username or email,
// excluding excludeID. Results are ordered by ID.
func (s *Store) searchUsers(query string, excludeID int) []models.AuthenticatedUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	out := []models.AuthenticatedUser{}
	for id, rec := range s.users {
		if id == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(rec.User.Username), q) ||
			strings.Contains(strings.ToLower(rec.User.Email), q) {
			out = append(out, rec.User)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) createGroup(g models.GroupOut) models.GroupOut {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGroupID++
	g.ID = s.nextGroupID
	s.groups[g.ID] = &g
	return g
}

func (s *Store) getGroup(id int) (models.GroupOut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return models.GroupOut{}, errGroupNotFound
	}
	return *g, nil
}

// groupsForUser lists groups the user created or joined, ordered by ID.
func (s *Store) groupsForUser(userID int) []models.GroupOut {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.GroupOut{}
	for id, g := range s.groups {
		if g.CreatedBy == userID {
			out = append(out, *g)
			continue
		}
		for _, m := range s.members[id] {
			if m.UserID == userID {
				out = append(out, *g)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) addMember(groupID, userID int, prefs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return errGroupNotFound
	}
	s.members[groupID] = append(s.members[groupID], member{UserID: userID, Preferences: prefs})
	return nil
}

func (s *Store) groupMembers(groupID int) []member {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]member(nil), s.members[groupID]...)
}

func (s *Store) createInvite(inv models.Invite) (models.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.invites {
		if existing.GroupID == inv.GroupID && existing.InvitedUserID == inv.InvitedUserID {
			return models.Invite{}, errAlreadyInvited
		}
	}
	s.nextInviteID++
	inv.ID = s.nextInviteID
	s.invites[inv.ID] = &inv
	return inv, nil
}

// pendingInvites lists invites for userID that were not accepted yet, ordered by ID.
func (s *Store) pendingInvites(userID int) []models.Invite {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Invite{}
	for _, inv := range s.invites {
		if inv.InvitedUserID == userID && !inv.Accepted {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// acceptInvite marks the invite accepted and adds the invitee to the group.
func (s *Store) acceptInvite(id int, prefs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invites[id]
	if !ok {
		return errInviteNotFound
	}
	if inv.Accepted {
		return errAlreadyAccepted
	}
	inv.Accepted = true
	s.members[inv.GroupID] = append(s.members[inv.GroupID], member{UserID: inv.InvitedUserID, Preferences: prefs})
	return nil
}

func (s *Store) deleteInvite(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invites[id]; !ok {
		return errInviteNotFound
	}
	delete(s.invites, id)
	return nil
}
