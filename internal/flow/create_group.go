package flow

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/internal/nav"
)

// GroupAPI is the part of the gateway used to create a group and invite people to it.
type GroupAPI interface {
	CreateGroup(ctx context.Context, req models.GroupCreateRequest) (*models.GroupOut, error)
	SendInvite(ctx context.Context, req models.InviteCreate) (*models.Invite, error)
}

// CreateGroupResult is what a successful group creation produced.
type CreateGroupResult struct {
	Group models.GroupOut
	// Invited lists the users an invite was sent to.
	Invited []models.AuthenticatedUser
	// InviteErrors holds per-user invite failures keyed by user ID. They do not fail
	// the submission.
	InviteErrors map[int]error
}

// CreateGroupFlow is the "new group" form.
type CreateGroupFlow struct {
	form
	api      GroupAPI
	sessions Sessions
	nav      Navigator
	logger   *slog.Logger

	Name   string
	Photo  string
	Public bool

	invitees map[int]models.AuthenticatedUser
}

// NewCreateGroupFlow creates the form with the default photo and public visibility.
func NewCreateGroupFlow(api GroupAPI, sessions Sessions, navigator Navigator, logger *slog.Logger) *CreateGroupFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateGroupFlow{
		api:      api,
		sessions: sessions,
		nav:      navigator,
		logger:   logger,
		Photo:    models.DefaultGroupPhoto,
		Public:   true,
		invitees: make(map[int]models.AuthenticatedUser),
	}
}

// ToggleInvitee selects or deselects a user to invite. It returns whether the user
// is selected afterwards.
func (f *CreateGroupFlow) ToggleInvitee(user models.AuthenticatedUser) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.invitees[user.ID]; ok {
		delete(f.invitees, user.ID)
		return false
	}
	f.invitees[user.ID] = user
	return true
}

// Invitees returns the selected users ordered by ID.
func (f *CreateGroupFlow) Invitees() []models.AuthenticatedUser {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.AuthenticatedUser, 0, len(f.invitees))
	for _, u := range f.invitees {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CanSubmit reports whether the submit action should be enabled.
func (f *CreateGroupFlow) CanSubmit() bool {
	return strings.TrimSpace(f.Name) != "" && !f.Submitting()
}

// Submit creates the group, sends invites to the selected users and pushes the
// preferences step for the new group.
func (f *CreateGroupFlow) Submit(ctx context.Context) (*CreateGroupResult, error) {
	if !f.guard.TryBegin() {
		return nil, ErrBusy
	}
	defer f.guard.End()

	if strings.TrimSpace(f.Name) == "" {
		return nil, f.fail(ErrNameRequired)
	}
	me, ok := f.sessions.CurrentUser(ctx)
	if !ok {
		return nil, f.fail(ErrLoginRequired)
	}

	photo := f.Photo
	if photo == "" {
		photo = models.DefaultGroupPhoto
	}

	group, err := f.api.CreateGroup(ctx, models.GroupCreateRequest{
		Name:       f.Name,
		CreatedBy:  me.ID,
		GroupPhoto: photo,
		IsPublic:   f.Public,
	})
	if err != nil {
		return nil, f.fail(err)
	}
	f.logger.Info("Group created", "group_id", group.ID, "name", group.Name)

	result := &CreateGroupResult{Group: *group, InviteErrors: make(map[int]error)}
	for _, u := range f.Invitees() {
		_, err := f.api.SendInvite(ctx, models.InviteCreate{
			GroupID:         group.ID,
			InvitedUserID:   u.ID,
			InvitedByUserID: me.ID,
		})
		if err != nil {
			f.logger.Warn("Failed to send invite", "group_id", group.ID, "user_id", u.ID, "error", err)
			result.InviteErrors[u.ID] = err
			continue
		}
		result.Invited = append(result.Invited, u)
	}

	f.succeed()
	f.nav.Push(nav.Preferences{GroupID: group.ID})
	return result, nil
}
