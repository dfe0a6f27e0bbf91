package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mmynk/triptangle/internal/app"
	"github.com/mmynk/triptangle/internal/models"
)

type cli struct {
	app    *app.App
	out    io.Writer
	errOut io.Writer
}

type command func(ctx context.Context, c *cli, args []string) error

var commands = map[string]command{
	"status":       cmdStatus,
	"signup":       cmdSignup,
	"login":        cmdLogin,
	"logout":       cmdLogout,
	"search":       cmdSearch,
	"create-group": cmdCreateGroup,
	"join":         cmdJoin,
	"suggestions":  cmdSuggestions,
	"groups":       cmdGroups,
	"invites":      cmdInvites,
	"accept":       cmdAccept,
	"decline":      cmdDecline,
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *cli) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// me returns the logged in user or an error telling the user to log in.
func (c *cli) me(ctx context.Context) (*models.AuthenticatedUser, error) {
	u, ok := c.app.CurrentUser(ctx)
	if !ok {
		return nil, errors.New("not logged in, run: triptangle login")
	}
	return u, nil
}

// formError prefers the inline text a flow recorded over the raw error.
func formError(inline string, err error) error {
	if inline != "" {
		return errors.New(inline)
	}
	return err
}

func cmdStatus(ctx context.Context, c *cli, args []string) error {
	screen := c.app.Start(ctx)
	fmt.Fprintf(c.out, "Screen: %s\n", screen)
	if u, ok := c.app.CurrentUser(ctx); ok {
		fmt.Fprintf(c.out, "Logged in as %s <%s> (id %d)\n", u.Username, u.Email, u.ID)
	} else {
		fmt.Fprintln(c.out, "Not logged in")
	}
	return nil
}

func cmdSignup(ctx context.Context, c *cli, args []string) error {
	f := c.app.SignupFlow()
	fs := c.flags("signup")
	fs.StringVar(&f.Username, "username", "", "username")
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.Password, "password", os.Getenv("TRIPTANGLE_PASSWORD"), "password (env TRIPTANGLE_PASSWORD)")
	fs.StringVar(&f.Bio, "bio", "", "short bio")
	fs.StringVar(&f.Location, "location", "", "current location")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	if err := f.Submit(ctx); err != nil {
		return formError(f.Err(), err)
	}
	fmt.Fprintf(c.out, "Welcome, %s!\n", f.Username)
	return nil
}

func cmdLogin(ctx context.Context, c *cli, args []string) error {
	f := c.app.LoginFlow()
	fs := c.flags("login")
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.Password, "password", os.Getenv("TRIPTANGLE_PASSWORD"), "password (env TRIPTANGLE_PASSWORD)")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	if err := f.Submit(ctx); err != nil {
		return formError(f.Err(), err)
	}
	u, _ := c.app.CurrentUser(ctx)
	fmt.Fprintf(c.out, "Logged in as %s (id %d)\n", u.Username, u.ID)
	return nil
}

func cmdLogout(ctx context.Context, c *cli, args []string) error {
	if err := c.app.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out")
	return nil
}

func cmdSearch(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(c.errOut, "Usage: triptangle search <query>")
		return errUsage
	}
	if _, err := c.me(ctx); err != nil {
		return err
	}

	f := c.app.SearchFlow()
	if err := f.Search(ctx, args[0]); err != nil {
		return formError(f.Err(), err)
	}
	results := f.Results()
	if len(results) == 0 {
		fmt.Fprintln(c.out, "No users found")
		return nil
	}
	for _, u := range results {
		fmt.Fprintf(c.out, "%d\t%s\t%s\n", u.ID, u.Username, u.Email)
	}
	return nil
}

func cmdCreateGroup(ctx context.Context, c *cli, args []string) error {
	f := c.app.CreateGroupFlow()
	var private bool
	var invite string
	fs := c.flags("create-group")
	fs.StringVar(&f.Name, "name", "", "group name")
	fs.StringVar(&f.Photo, "photo", models.DefaultGroupPhoto, "group emoji, one of "+strings.Join(models.GroupPhotoOptions, " "))
	fs.BoolVar(&private, "private", false, "make the group private")
	fs.StringVar(&invite, "invite", "", "comma separated user IDs to invite")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	f.Public = !private

	ids, err := parseIDs(invite)
	if err != nil {
		return err
	}
	for _, id := range ids {
		u, err := c.app.Gateway().GetUser(ctx, id)
		if err != nil {
			return fmt.Errorf("user %d: %w", id, err)
		}
		f.ToggleInvitee(*u)
	}

	result, err := f.Submit(ctx)
	if err != nil {
		return formError(f.Err(), err)
	}
	fmt.Fprintf(c.out, "Created group %d %s %q\n", result.Group.ID, result.Group.GroupPhoto, result.Group.Name)
	for _, u := range result.Invited {
		fmt.Fprintf(c.out, "Invited %s\n", u.Username)
	}
	for id, err := range result.InviteErrors {
		fmt.Fprintf(c.errOut, "Could not invite user %d: %v\n", id, err)
	}
	fmt.Fprintf(c.out, "Next: triptangle join -group %d\n", result.Group.ID)
	return nil
}

func cmdJoin(ctx context.Context, c *cli, args []string) error {
	var groupID int
	var interests, weather, month, budget string
	fs := c.flags("join")
	fs.IntVar(&groupID, "group", 0, "group ID")
	fs.StringVar(&interests, "interests", "", "comma separated interests, e.g. \"🏖️ Beach,🍕 Food\"")
	fs.StringVar(&budget, "budget", "", "maximum budget")
	fs.StringVar(&weather, "weather", "warm", "warm, cold or mild")
	fs.StringVar(&month, "month", "", "travel month YYYY-MM (default this month)")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if groupID == 0 {
		fmt.Fprintln(c.errOut, "-group is required")
		return errUsage
	}

	f := c.app.PreferencesFlow(groupID)
	for _, tag := range splitList(interests) {
		f.ToggleInterest(tag)
	}
	f.Budget = budget
	w, err := parseWeather(weather)
	if err != nil {
		return err
	}
	f.Weather = w
	if month != "" {
		ym, err := models.ParseYearMonth(month)
		if err != nil {
			return err
		}
		f.Month = ym
	}

	if err := f.Submit(ctx); err != nil {
		return formError(f.Err(), err)
	}
	fmt.Fprintf(c.out, "Joined group %d for %s\n", groupID, f.Month)
	fmt.Fprintf(c.out, "Next: triptangle suggestions -group %d\n", groupID)
	return nil
}

func cmdSuggestions(ctx context.Context, c *cli, args []string) error {
	var groupID int
	var vote string
	fs := c.flags("suggestions")
	fs.IntVar(&groupID, "group", 0, "group ID")
	fs.StringVar(&vote, "vote", "", "comma separated cities to vote for")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if groupID == 0 {
		fmt.Fprintln(c.errOut, "-group is required")
		return errUsage
	}

	f := c.app.SuggestionsFlow(groupID)
	if err := f.Load(ctx); err != nil {
		return formError(f.Err(), err)
	}

	votes := make(map[string]bool)
	for _, city := range splitList(vote) {
		votes[strings.ToLower(city)] = true
	}

	fmt.Fprintf(c.out, "Suggestions for %s\n", f.MonthLabel())
	for {
		dest, ok := f.Current()
		if !ok {
			break
		}
		mark := " "
		if votes[strings.ToLower(dest.City)] {
			dest, _ = f.Vote()
			mark = "*"
		} else {
			f.Skip()
		}
		fmt.Fprintf(c.out, "%s %s, %s (%s)  %s  votes: %d\n", mark, dest.City, dest.Country, dest.IATACode, f.Details(dest), dest.Votes.Number)
		fmt.Fprintf(c.out, "    %s\n", dest.Reason)
		fmt.Fprintf(c.out, "    %s\n", dest.SkyscannerURL)
	}
	return nil
}

func cmdGroups(ctx context.Context, c *cli, args []string) error {
	me, err := c.me(ctx)
	if err != nil {
		return err
	}
	groups, err := c.app.Gateway().ListUserGroups(ctx, me.ID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(c.out, "No groups yet")
		return nil
	}
	for _, g := range groups {
		visibility := "public"
		if !g.IsPublic {
			visibility = "private"
		}
		fmt.Fprintf(c.out, "%d\t%s %s\t%s\n", g.ID, g.GroupPhoto, g.Name, visibility)
	}
	return nil
}

func cmdInvites(ctx context.Context, c *cli, args []string) error {
	me, err := c.me(ctx)
	if err != nil {
		return err
	}
	invites, err := c.app.Gateway().ListInvites(ctx, me.ID)
	if err != nil {
		return err
	}
	if len(invites) == 0 {
		fmt.Fprintln(c.out, "No pending invites")
		return nil
	}
	for _, inv := range invites {
		fmt.Fprintf(c.out, "invite %d\tgroup %d\tfrom user %d\n", inv.ID, inv.GroupID, inv.InvitedByUserID)
	}
	return nil
}

func cmdAccept(ctx context.Context, c *cli, args []string) error {
	var inviteID int
	var interests, weather, period, budget string
	fs := c.flags("accept")
	fs.IntVar(&inviteID, "invite", 0, "invite ID")
	fs.StringVar(&interests, "interests", "", "comma separated interests")
	fs.StringVar(&weather, "weather", "", "warm, cold or mild")
	fs.StringVar(&period, "period", "", "travel period, e.g. 2025-08")
	fs.StringVar(&budget, "budget", "", "budget")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if inviteID == 0 {
		fmt.Fprintln(c.errOut, "-invite is required")
		return errUsage
	}

	prefs := models.InvitePreferences{Interests: splitList(interests)}
	if weather != "" {
		w, err := parseWeather(weather)
		if err != nil {
			return err
		}
		prefs.Weather = &w
	}
	if period != "" {
		prefs.Period = &period
	}
	if budget != "" {
		prefs.Budget = &budget
	}

	if err := c.app.Gateway().AcceptInvite(ctx, inviteID, prefs); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Accepted invite %d\n", inviteID)
	return nil
}

func cmdDecline(ctx context.Context, c *cli, args []string) error {
	var inviteID int
	fs := c.flags("decline")
	fs.IntVar(&inviteID, "invite", 0, "invite ID")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if inviteID == 0 {
		fmt.Fprintln(c.errOut, "-invite is required")
		return errUsage
	}

	if err := c.app.Gateway().DeclineInvite(ctx, inviteID); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Declined invite %d\n", inviteID)
	return nil
}

// parseWeather accepts warm, cold or mild (any case) or a full weather token.
func parseWeather(s string) (string, error) {
	for _, opt := range models.WeatherOptions {
		if s == opt || strings.HasSuffix(strings.ToLower(opt), " "+strings.ToLower(strings.TrimSpace(s))) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("unknown weather %q: want warm, cold or mild", s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range splitList(s) {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

