package flow

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/triptangle/internal/fakeapi"
	"github.com/mmynk/triptangle/internal/gateway"
	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/internal/nav"
	"github.com/mmynk/triptangle/internal/storage"
	"github.com/mmynk/triptangle/internal/storage/sqlite"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memSessions is an in-memory Sessions that also serves as a gateway TokenSource.
type memSessions struct {
	mu    sync.Mutex
	user  *models.AuthenticatedUser
	token string
	saves int
}

func loggedIn(id int) *memSessions {
	return &memSessions{user: &models.AuthenticatedUser{ID: id, Username: "traveler", Email: "t@example.com"}, token: "tok"}
}

func (m *memSessions) Save(_ context.Context, user models.AuthenticatedUser, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	m.token = token
	m.saves++
	return nil
}

func (m *memSessions) CurrentUser(context.Context) (*models.AuthenticatedUser, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, false
	}
	u := *m.user
	return &u, true
}

func (m *memSessions) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// setupFake returns a gateway client talking to a fresh fake backend, a SQLite
// session store used as its token source, and a router.
func setupFake(t *testing.T) (*fakeapi.Server, *gateway.Client, *sqlite.SQLiteStore, *nav.Router) {
	t.Helper()

	backend := fakeapi.New(fakeapi.Config{BcryptCost: bcrypt.MinCost, Logger: quietLogger()})
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	client, err := gateway.New(server.URL, gateway.WithTokenSource(store), gateway.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Failed to create gateway: %v", err)
	}
	return backend, client, store, nav.NewRouter()
}

func TestGuard(t *testing.T) {
	var g Guard
	if !g.TryBegin() {
		t.Fatal("first TryBegin should succeed")
	}
	if g.TryBegin() {
		t.Error("second TryBegin should fail while busy")
	}
	if !g.Busy() {
		t.Error("expected Busy")
	}
	g.End()
	if g.Busy() {
		t.Error("expected not busy after End")
	}
	if !g.TryBegin() {
		t.Error("TryBegin should succeed after End")
	}
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("401 yields invalid credentials and leaves the store empty", func(t *testing.T) {
		_, client, store, router := setupFake(t)
		f := NewLoginFlow(client, store, router)
		f.Email = "a@b.com"
		f.Password = "x"

		err := f.Submit(ctx)
		if !errors.Is(err, gateway.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := store.Load(ctx); !errors.Is(err, storage.ErrNoSession) {
			t.Errorf("store must stay empty, Load returned %v", err)
		}
		if router.Screen() != nav.Splash {
			t.Errorf("screen: got %v, want splash", router.Screen())
		}
		if f.Err() != "Invalid email or password." {
			t.Errorf("inline error: got %q", f.Err())
		}
		if f.Email != "a@b.com" || f.Password != "x" {
			t.Error("input must survive a failed login")
		}
	})

	t.Run("success saves session and opens main", func(t *testing.T) {
		backend, client, store, router := setupFake(t)
		user, err := backend.SeedUser(ctx, models.RegisterRequest{Username: "ab", Email: "a@b.com", Password: "x"})
		if err != nil {
			t.Fatalf("SeedUser failed: %v", err)
		}

		f := NewLoginFlow(client, store, router)
		f.Email = " a@b.com "
		f.Password = "x"
		if err := f.Submit(ctx); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		sess, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !reflect.DeepEqual(sess.User, *user) {
			t.Errorf("stored user: got %+v, want %+v", sess.User, *user)
		}
		if sess.Token == "" {
			t.Error("expected stored token")
		}
		if router.Screen() != nav.Main {
			t.Errorf("screen: got %v, want main", router.Screen())
		}
		if f.Err() != "" {
			t.Errorf("expected no inline error, got %q", f.Err())
		}
	})

	t.Run("blank fields never reach the backend", func(t *testing.T) {
		backend, client, store, router := setupFake(t)
		f := NewLoginFlow(client, store, router)
		f.Email = "a@b.com"

		if err := f.Submit(ctx); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields, got %v", err)
		}
		if backend.RequestCount() != 0 {
			t.Errorf("expected no requests, got %d", backend.RequestCount())
		}
		if f.Err() != "Please fill in all required fields." {
			t.Errorf("inline error: got %q", f.Err())
		}
	})
}

func TestSignupFlow(t *testing.T) {
	ctx := context.Background()
	_, client, store, router := setupFake(t)

	f := NewSignupFlow(client, store, router)
	f.Username = "noa"
	f.Email = "noa@example.com"
	f.Password = "pw"
	f.Location = "Haifa"
	if err := f.Submit(ctx); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	u, ok := store.CurrentUser(ctx)
	if !ok {
		t.Fatal("expected a stored user after signup")
	}
	if u.Username != "noa" || u.CurrentLocation == nil || *u.CurrentLocation != "Haifa" || u.Bio != nil {
		t.Errorf("unexpected user: %+v", u)
	}
	if router.Screen() != nav.Main {
		t.Errorf("screen: got %v, want main", router.Screen())
	}

	again := NewSignupFlow(client, store, nav.NewRouter())
	again.Username = "noa2"
	again.Email = "noa@example.com"
	again.Password = "pw"
	if err := again.Submit(ctx); err == nil {
		t.Fatal("expected duplicate email to fail")
	}
	if again.Err() != `{"detail":"Email already registered"}` {
		t.Errorf("inline error: got %q", again.Err())
	}
}

func TestCreateGroupFlow_NavigatesWithNewGroupID(t *testing.T) {
	var got models.GroupCreateRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/groups/groups/" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":3,"name":"Summer Getaway","created_by":7,"group_photo":"🌍","is_public":true,"created_date":"2025-06-01T10:00:00"}`)
	}))
	defer server.Close()

	sessions := loggedIn(7)
	client, err := gateway.New(server.URL, gateway.WithTokenSource(sessions), gateway.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Failed to create gateway: %v", err)
	}
	router := nav.NewRouter()
	router.GoToMain()
	router.Push(nav.CreateGroup{})

	f := NewCreateGroupFlow(client, sessions, router, quietLogger())
	f.Name = "Summer Getaway"

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	want := models.GroupCreateRequest{Name: "Summer Getaway", CreatedBy: 7, GroupPhoto: "🌍", IsPublic: true}
	if got != want {
		t.Errorf("request body: got %+v, want %+v", got, want)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("authorization: got %q", gotAuth)
	}
	if result.Group.ID != 3 {
		t.Errorf("group id: got %d, want 3", result.Group.ID)
	}

	state := router.Current()
	if state.Screen != nav.Main {
		t.Errorf("screen: got %v, want main", state.Screen)
	}
	if top := state.Top(); top != (nav.Preferences{GroupID: 3}) {
		t.Errorf("top route: got %v, want preferences(3)", top)
	}
}

// stubGroups records calls and fails invites for the users in failInvite.
type stubGroups struct {
	mu         sync.Mutex
	creates    int
	invited    []int
	failInvite map[int]bool
	createErr  error
}

func (s *stubGroups) CreateGroup(_ context.Context, req models.GroupCreateRequest) (*models.GroupOut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.GroupOut{ID: 11, Name: req.Name, CreatedBy: req.CreatedBy, GroupPhoto: req.GroupPhoto, IsPublic: req.IsPublic}, nil
}

func (s *stubGroups) SendInvite(_ context.Context, req models.InviteCreate) (*models.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInvite[req.InvitedUserID] {
		return nil, errors.New("invite rejected")
	}
	s.invited = append(s.invited, req.InvitedUserID)
	return &models.Invite{GroupID: req.GroupID, InvitedUserID: req.InvitedUserID}, nil
}

func TestCreateGroupFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		f := NewCreateGroupFlow(&stubGroups{}, loggedIn(1), nav.NewRouter(), nil)
		if f.Photo != models.DefaultGroupPhoto || !f.Public {
			t.Errorf("unexpected defaults: photo %q public %v", f.Photo, f.Public)
		}
		if f.CanSubmit() {
			t.Error("submit must be disabled without a name")
		}
		f.Name = "Trip"
		if !f.CanSubmit() {
			t.Error("submit must be enabled with a name")
		}
	})

	t.Run("blank name is rejected without a call", func(t *testing.T) {
		api := &stubGroups{}
		f := NewCreateGroupFlow(api, loggedIn(1), nav.NewRouter(), quietLogger())
		f.Name = "   "
		if _, err := f.Submit(ctx); !errors.Is(err, ErrNameRequired) {
			t.Fatalf("expected ErrNameRequired, got %v", err)
		}
		if api.creates != 0 {
			t.Errorf("expected no calls, got %d", api.creates)
		}
	})

	t.Run("logged out is rejected without a call", func(t *testing.T) {
		api := &stubGroups{}
		f := NewCreateGroupFlow(api, &memSessions{}, nav.NewRouter(), quietLogger())
		f.Name = "Trip"
		if _, err := f.Submit(ctx); !errors.Is(err, ErrLoginRequired) {
			t.Fatalf("expected ErrLoginRequired, got %v", err)
		}
		if api.creates != 0 {
			t.Errorf("expected no calls, got %d", api.creates)
		}
		if f.Err() != "Login required" {
			t.Errorf("inline error: got %q", f.Err())
		}
	})

	t.Run("failure keeps input and does not navigate", func(t *testing.T) {
		api := &stubGroups{createErr: &gateway.Error{Kind: gateway.KindServer, Message: `{"detail":"name too long"}`}}
		router := nav.NewRouter()
		f := NewCreateGroupFlow(api, loggedIn(1), router, quietLogger())
		f.Name = "Trip"
		f.Photo = "🏝️"
		f.Public = false

		if _, err := f.Submit(ctx); !errors.Is(err, gateway.ErrServer) {
			t.Fatalf("expected ErrServer, got %v", err)
		}
		if f.Err() != `{"detail":"name too long"}` {
			t.Errorf("inline error: got %q", f.Err())
		}
		if f.Name != "Trip" || f.Photo != "🏝️" || f.Public {
			t.Error("input must survive a failed submission")
		}
		if len(router.Current().Stack) != 0 {
			t.Error("failed submission must not navigate")
		}
	})

	t.Run("invites are best effort", func(t *testing.T) {
		api := &stubGroups{failInvite: map[int]bool{3: true}}
		router := nav.NewRouter()
		f := NewCreateGroupFlow(api, loggedIn(1), router, quietLogger())
		f.Name = "Trip"
		f.ToggleInvitee(models.AuthenticatedUser{ID: 3, Username: "c"})
		f.ToggleInvitee(models.AuthenticatedUser{ID: 2, Username: "b"})
		f.ToggleInvitee(models.AuthenticatedUser{ID: 4, Username: "d"})
		if f.ToggleInvitee(models.AuthenticatedUser{ID: 4, Username: "d"}) {
			t.Error("second toggle should deselect")
		}

		result, err := f.Submit(ctx)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if len(result.Invited) != 1 || result.Invited[0].ID != 2 {
			t.Errorf("invited: got %+v", result.Invited)
		}
		if _, ok := result.InviteErrors[3]; !ok || len(result.InviteErrors) != 1 {
			t.Errorf("invite errors: got %v", result.InviteErrors)
		}
		if router.Current().Top() != (nav.Preferences{GroupID: 11}) {
			t.Errorf("top route: got %v", router.Current().Top())
		}
	})
}

// blockingGroups holds CreateGroup until release is closed.
type blockingGroups struct {
	stubGroups
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGroups) CreateGroup(ctx context.Context, req models.GroupCreateRequest) (*models.GroupOut, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.stubGroups.CreateGroup(ctx, req)
}

func TestCreateGroupFlow_RejectsConcurrentSubmit(t *testing.T) {
	api := &blockingGroups{entered: make(chan struct{}, 1), release: make(chan struct{})}
	f := NewCreateGroupFlow(api, loggedIn(1), nav.NewRouter(), quietLogger())
	f.Name = "Trip"
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(ctx)
		done <- err
	}()
	<-api.entered

	if !f.Submitting() {
		t.Error("expected Submitting while a request is in flight")
	}
	if f.CanSubmit() {
		t.Error("submit must be disabled while a request is in flight")
	}
	if _, err := f.Submit(ctx); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	if api.creates != 1 {
		t.Errorf("expected exactly one create, got %d", api.creates)
	}
}

type stubJoin struct {
	calls   int
	groupID int
	req     models.GroupJoinRequest
	err     error
}

func (s *stubJoin) JoinGroup(_ context.Context, groupID int, req models.GroupJoinRequest) error {
	s.calls++
	s.groupID = groupID
	s.req = req
	return s.err
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"12.5", nil},
		{"800", intPtr(800)},
		{" 800 ", intPtr(800)},
		{"0", intPtr(0)},
	}
	for _, tt := range tests {
		got := ParseBudget(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("ParseBudget(%q): got %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func intPtr(n int) *int { return &n }

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestPreferencesFlow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		f := NewPreferencesFlow(&stubJoin{}, loggedIn(1), nav.NewRouter(), 5, now)
		if f.Weather != models.WeatherWarm {
			t.Errorf("weather: got %q", f.Weather)
		}
		if f.Month != (models.YearMonth{Year: 2025, Month: 3}) {
			t.Errorf("month: got %v", f.Month)
		}
	})

	t.Run("builds zero padded join request", func(t *testing.T) {
		api := &stubJoin{}
		router := nav.NewRouter()
		f := NewPreferencesFlow(api, loggedIn(7), router, 5, now)
		f.ToggleInterest("🍕 Food")
		f.ToggleInterest("🏖️ Beach")
		f.ToggleInterest("Karaoke")
		f.Budget = "800"
		f.Weather = models.WeatherMild
		f.Month = models.YearMonth{Year: 2025, Month: 8}

		if err := f.Submit(ctx); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		want := models.GroupJoinRequest{
			UserID: 7,
			Preferences: models.Preferences{
				Interests: []string{"🏖️ Beach", "🍕 Food", "Karaoke"},
				MaxBudget: intPtr(800),
				Weather:   models.WeatherMild,
				Date:      "2025-08",
			},
		}
		if api.groupID != 5 || !reflect.DeepEqual(api.req, want) {
			t.Errorf("join: group %d req %+v, want group 5 req %+v", api.groupID, api.req, want)
		}
		if router.Current().Top() != (nav.Suggestions{GroupID: 5}) {
			t.Errorf("top route: got %v", router.Current().Top())
		}
	})

	t.Run("blank budget is absent", func(t *testing.T) {
		f := NewPreferencesFlow(&stubJoin{}, loggedIn(1), nav.NewRouter(), 5, now)
		req, err := f.Request(1)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if req.Preferences.MaxBudget != nil {
			t.Errorf("expected nil budget, got %d", *req.Preferences.MaxBudget)
		}
		if req.Preferences.Interests == nil || len(req.Preferences.Interests) != 0 {
			t.Errorf("expected empty interests, got %#v", req.Preferences.Interests)
		}
	})

	t.Run("no user is terminal and sends nothing", func(t *testing.T) {
		api := &stubJoin{}
		f := NewPreferencesFlow(api, &memSessions{}, nav.NewRouter(), 5, now)
		if err := f.Submit(ctx); !errors.Is(err, ErrLoginRequired) {
			t.Fatalf("expected ErrLoginRequired, got %v", err)
		}
		if api.calls != 0 {
			t.Errorf("expected no calls, got %d", api.calls)
		}
	})

	t.Run("invalid month is rejected", func(t *testing.T) {
		api := &stubJoin{}
		f := NewPreferencesFlow(api, loggedIn(1), nav.NewRouter(), 5, now)
		f.Month = models.YearMonth{Year: 2025, Month: 13}
		if err := f.Submit(ctx); err == nil {
			t.Fatal("expected an error for month 13")
		}
		if api.calls != 0 {
			t.Errorf("expected no calls, got %d", api.calls)
		}
	})

	t.Run("server error keeps selections", func(t *testing.T) {
		api := &stubJoin{err: &gateway.Error{Kind: gateway.KindServer}}
		router := nav.NewRouter()
		f := NewPreferencesFlow(api, loggedIn(1), router, 5, now)
		f.ToggleInterest("🍕 Food")
		f.Budget = "300"

		if err := f.Submit(ctx); !errors.Is(err, gateway.ErrServer) {
			t.Fatalf("expected ErrServer, got %v", err)
		}
		if f.Err() != "Server error" {
			t.Errorf("inline error: got %q", f.Err())
		}
		if got := f.Interests(); len(got) != 1 || f.Budget != "300" {
			t.Errorf("selections lost: interests %v budget %q", got, f.Budget)
		}
		if router.Current().Top() != nil {
			t.Error("failed submission must not navigate")
		}
	})
}

func TestPreferencesFlow_AgainstBackend(t *testing.T) {
	ctx := context.Background()
	backend, client, store, router := setupFake(t)

	owner, err := backend.SeedUser(ctx, models.RegisterRequest{Username: "owner", Email: "owner@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("SeedUser failed: %v", err)
	}
	login := NewLoginFlow(client, store, router)
	login.Email, login.Password = "owner@example.com", "pw"
	if err := login.Submit(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	create := NewCreateGroupFlow(client, store, router, quietLogger())
	create.Name = "Summer Getaway"
	result, err := create.Submit(ctx)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Group.CreatedBy != owner.ID {
		t.Errorf("created_by: got %d, want %d", result.Group.CreatedBy, owner.ID)
	}

	prefs := NewPreferencesFlow(client, store, router, result.Group.ID, time.Now())
	prefs.ToggleInterest("🏖️ Beach")
	prefs.Month = models.YearMonth{Year: 2025, Month: 7}
	if err := prefs.Submit(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	suggestions := NewSuggestionsFlow(client, result.Group.ID)
	if err := suggestions.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if suggestions.MonthLabel() != "July 2025" {
		t.Errorf("month label: got %q", suggestions.MonthLabel())
	}
	if len(suggestions.Destinations()) == 0 {
		t.Error("expected destinations")
	}

	want := []nav.Route{nav.Preferences{GroupID: result.Group.ID}, nav.Suggestions{GroupID: result.Group.ID}}
	if got := router.Current().Stack; !reflect.DeepEqual(got, want) {
		t.Errorf("stack: got %v, want %v", got, want)
	}
}

// gatedSearch blocks queries that have a gate until it is closed.
type gatedSearch struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	calls   []string
	started chan string
}

func (g *gatedSearch) SearchUsers(_ context.Context, query string, _ int) ([]models.AuthenticatedUser, error) {
	g.mu.Lock()
	gate := g.gates[query]
	g.calls = append(g.calls, query)
	g.mu.Unlock()

	g.started <- query
	if gate != nil {
		<-gate
	}
	return []models.AuthenticatedUser{{ID: len(query), Username: query}}, nil
}

func TestSearchFlow_DropsStaleResponses(t *testing.T) {
	slow := make(chan struct{})
	api := &gatedSearch{gates: map[string]chan struct{}{"a": slow}, started: make(chan string, 4)}
	f := NewSearchFlow(api, loggedIn(1))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- f.Search(ctx, "a") }()
	<-api.started

	if err := f.Search(ctx, "ab"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	close(slow)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded for the stale query, got %v", err)
	}

	results := f.Results()
	if len(results) != 1 || results[0].Username != "ab" {
		t.Errorf("results: got %+v, want the ab results", results)
	}
	if f.Query() != "ab" {
		t.Errorf("query: got %q", f.Query())
	}
}

func TestSearchFlow_EmptyQueryClearsWithoutCall(t *testing.T) {
	api := &gatedSearch{started: make(chan string, 4)}
	f := NewSearchFlow(api, loggedIn(1))
	ctx := context.Background()

	if err := f.Search(ctx, "no"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(f.Results()) != 1 {
		t.Fatalf("expected one result, got %d", len(f.Results()))
	}
	if err := f.Search(ctx, ""); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(f.Results()) != 0 {
		t.Errorf("expected cleared results, got %+v", f.Results())
	}
	if len(api.calls) != 1 {
		t.Errorf("expected one backend call, got %v", api.calls)
	}
}

func TestSearchFlow_AgainstBackend(t *testing.T) {
	ctx := context.Background()
	backend, client, store, _ := setupFake(t)

	me, _ := backend.SeedUser(ctx, models.RegisterRequest{Username: "maya", Email: "maya@example.com", Password: "pw"})
	backend.SeedUser(ctx, models.RegisterRequest{Username: "mayan", Email: "mayan@example.com", Password: "pw"})
	if err := store.Save(ctx, *me, "unused"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f := NewSearchFlow(client, store)
	if err := f.Search(ctx, "may"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got := f.Results(); len(got) != 1 || got[0].Username != "mayan" {
		t.Errorf("results: got %+v", got)
	}
}

type stubAnalyze struct {
	resp *models.AnalyzeResponse
	err  error
}

func (s *stubAnalyze) AnalyzeGroup(context.Context, int) (*models.AnalyzeResponse, error) {
	return s.resp, s.err
}

func TestSuggestionsFlow(t *testing.T) {
	ctx := context.Background()
	api := &stubAnalyze{resp: &models.AnalyzeResponse{
		GroupID:               2,
		AggregatedPreferences: models.AggregatedPreferences{TravelMonth: "2025-08"},
		SuggestedDestinations: []models.Destination{
			{City: "Barcelona", EstimatedPrice: 520},
			{City: "Lisbon", EstimatedPrice: 430, Votes: models.Votes{Number: 2}},
		},
	}}
	f := NewSuggestionsFlow(api, 2)

	if f.Done() {
		t.Error("an unloaded pager is not done")
	}
	if err := f.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cur, ok := f.Current()
	if !ok || cur.City != "Barcelona" {
		t.Fatalf("current: got %+v", cur)
	}
	if got := f.Details(cur); got != "$520 • August 2025" {
		t.Errorf("details: got %q", got)
	}

	f.Skip()
	voted, ok := f.Vote()
	if !ok || voted.City != "Lisbon" || voted.Votes.Number != 3 {
		t.Errorf("vote: got %+v", voted)
	}
	if !f.Done() {
		t.Error("expected done after the last card")
	}
	if _, ok := f.Vote(); ok {
		t.Error("voting past the end should do nothing")
	}

	dests := f.Destinations()
	if dests[0].Votes.Number != 0 || dests[1].Votes.Number != 3 {
		t.Errorf("votes: got %d and %d", dests[0].Votes.Number, dests[1].Votes.Number)
	}
	if api.resp.SuggestedDestinations[1].Votes.Number != 2 {
		t.Error("votes must not leak into the backend response")
	}

	t.Run("failure keeps previous suggestions", func(t *testing.T) {
		api.err = &gateway.Error{Kind: gateway.KindServer, Message: "boom"}
		if err := f.Load(ctx); err == nil {
			t.Fatal("expected an error")
		}
		if f.Err() != "boom" {
			t.Errorf("inline error: got %q", f.Err())
		}
		if len(f.Destinations()) != 2 {
			t.Error("previous suggestions must be kept")
		}
	})
}

func TestMonthLabel(t *testing.T) {
	tests := map[string]string{
		"2025-08": "August 2025",
		"2026-01": "January 2026",
		"2025-13": "2025-13",
		"soon":    "soon",
	}
	for in, want := range tests {
		if got := monthLabel(in); got != want {
			t.Errorf("monthLabel(%q): got %q, want %q", in, got, want)
		}
	}
}
