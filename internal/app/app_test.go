package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/triptangle/internal/auth"
	"github.com/mmynk/triptangle/internal/config"
	"github.com/mmynk/triptangle/internal/fakeapi"
	"github.com/mmynk/triptangle/internal/flow"
	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/internal/nav"
	"github.com/mmynk/triptangle/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupApp(t *testing.T, reg prometheus.Registerer) (*App, *fakeapi.Server) {
	t.Helper()

	backend := fakeapi.New(fakeapi.Config{BcryptCost: bcrypt.MinCost, Logger: quietLogger()})
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		BaseURL:     server.URL,
		SessionDB:   filepath.Join(t.TempDir(), "session.db"),
		HTTPTimeout: 5 * time.Second,
	}
	a, err := Open(cfg, quietLogger(), reg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, backend
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	_, err := Open(&config.Config{BaseURL: "localhost:8000", SessionDB: filepath.Join(t.TempDir(), "s.db")}, quietLogger(), nil)
	if err == nil {
		t.Fatal("expected an error for a base URL without scheme")
	}
}

func TestStart(t *testing.T) {
	ctx := context.Background()
	user := models.AuthenticatedUser{ID: 4, Username: "dana", Email: "dana@example.com"}

	t.Run("no session goes to welcome", func(t *testing.T) {
		a, _ := setupApp(t, nil)
		if got := a.Start(ctx); got != nav.Welcome {
			t.Errorf("Start: got %v, want welcome", got)
		}
	})

	t.Run("valid session resumes on main", func(t *testing.T) {
		a, backend := setupApp(t, nil)
		token, err := backend.IssueToken(user)
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}
		if err := a.store.Save(ctx, user, token); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if got := a.Start(ctx); got != nav.Main {
			t.Errorf("Start: got %v, want main", got)
		}
	})

	t.Run("expired session is cleared", func(t *testing.T) {
		a, _ := setupApp(t, nil)
		token, err := auth.NewJWTManager("secret", time.Hour).Generate(user.ID, user.Email)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if err := a.store.Save(ctx, user, token); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		if got := a.Start(ctx); got != nav.Welcome {
			t.Errorf("Start: got %v, want welcome", got)
		}
		if _, err := a.store.Load(ctx); !errors.Is(err, storage.ErrNoSession) {
			t.Errorf("expired session must be cleared, Load returned %v", err)
		}
	})

	t.Run("opaque token is not treated as expired", func(t *testing.T) {
		a, _ := setupApp(t, nil)
		if err := a.store.Save(ctx, user, "not-a-jwt"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if got := a.Start(ctx); got != nav.Main {
			t.Errorf("Start: got %v, want main", got)
		}
	})
}

func TestLoginThenLogout(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	a, backend := setupApp(t, reg)

	if _, err := backend.SeedUser(ctx, models.RegisterRequest{Username: "dana", Email: "dana@example.com", Password: "pw"}); err != nil {
		t.Fatalf("SeedUser failed: %v", err)
	}
	if a.Start(ctx) != nav.Welcome {
		t.Fatal("expected welcome before login")
	}

	login := a.LoginFlow()
	login.Email, login.Password = "dana@example.com", "pw"
	if err := login.Submit(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if a.Router().Screen() != nav.Main {
		t.Errorf("screen after login: got %v", a.Router().Screen())
	}
	me, ok := a.CurrentUser(ctx)
	if !ok || me.Username != "dana" {
		t.Fatalf("current user: got %+v, %v", me, ok)
	}

	// the gateway reads the token the login just stored
	create := a.CreateGroupFlow()
	create.Name = "Weekend"
	if _, err := create.Submit(ctx); err != nil {
		t.Fatalf("create group failed: %v", err)
	}

	if err := a.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if a.Router().Screen() != nav.Welcome {
		t.Errorf("screen after logout: got %v", a.Router().Screen())
	}
	if _, ok := a.CurrentUser(ctx); ok {
		t.Error("expected no user after logout")
	}

	// a write after logout fails before reaching the backend
	before := backend.RequestCount()
	again := a.CreateGroupFlow()
	again.Name = "Weekend 2"
	if _, err := again.Submit(ctx); !errors.Is(err, flow.ErrLoginRequired) {
		t.Errorf("expected login required, got %v", err)
	}
	if backend.RequestCount() != before {
		t.Error("logged out submit must not reach the backend")
	}

	n, err := testutil.GatherAndCount(reg, "triptangle_gateway_requests_total")
	if err != nil {
		t.Fatalf("GatherAndCount failed: %v", err)
	}
	if n == 0 {
		t.Error("expected gateway metrics to be registered and recorded")
	}
}
