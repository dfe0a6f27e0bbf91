// Package app is the application root. It owns the session store, the router and the
// backend gateway, and hands them to the flows it creates. Nothing here is global.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/triptangle/internal/auth"
	"github.com/mmynk/triptangle/internal/config"
	"github.com/mmynk/triptangle/internal/flow"
	"github.com/mmynk/triptangle/internal/gateway"
	"github.com/mmynk/triptangle/internal/middleware"
	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/internal/nav"
	"github.com/mmynk/triptangle/internal/storage"
	"github.com/mmynk/triptangle/internal/storage/sqlite"
)

// Store is the session store the app needs: persistence plus the read helpers the
// gateway and flows use.
type Store interface {
	storage.SessionStore
	CurrentUser(ctx context.Context) (*models.AuthenticatedUser, bool)
	Token(ctx context.Context) (string, error)
}

// App wires the client together.
type App struct {
	store   Store
	router  *nav.Router
	gateway *gateway.Client
	logger  *slog.Logger
	now     func() time.Time
}

// New creates an app from already constructed parts. The router should be fresh
// (on the splash screen).
func New(store Store, client *gateway.Client, router *nav.Router, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		store:   store,
		router:  router,
		gateway: client,
		logger:  logger,
		now:     time.Now,
	}
}

// Open builds the app from configuration: a SQLite session store at cfg.SessionDB
// and a gateway for cfg.BaseURL that reads its token from that store. Gateway metrics
// are registered with reg when it is non-nil.
func Open(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	store, err := sqlite.New(cfg.SessionDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	hc := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: middleware.NewLoggingTransport(http.DefaultTransport, logger),
	}
	opts := []gateway.Option{
		gateway.WithHTTPClient(hc),
		gateway.WithTokenSource(store),
		gateway.WithLogger(logger),
	}
	if reg != nil {
		opts = append(opts, gateway.WithMetrics(gateway.NewMetrics(reg)))
	}

	client, err := gateway.New(cfg.BaseURL, opts...)
	if err != nil {
		store.Close()
		return nil, err
	}

	logger.Debug("App opened", "base_url", client.BaseURL(), "session_db", cfg.SessionDB)
	return New(store, client, nav.NewRouter(), logger), nil
}

// Close releases the session store.
func (a *App) Close() error {
	return a.store.Close()
}

// Router returns the app's router.
func (a *App) Router() *nav.Router {
	return a.router
}

// Gateway returns the app's backend client.
func (a *App) Gateway() *gateway.Client {
	return a.gateway
}

// Start leaves the splash screen. A stored session whose token has not expired
// resumes on main; otherwise the app shows welcome. An expired session is cleared.
func (a *App) Start(ctx context.Context) nav.Screen {
	a.router.GoToSplash()

	sess, err := a.store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoSession):
		a.router.GoToWelcome()
	case err != nil:
		a.logger.Warn("Failed to load session", "error", err)
		a.router.GoToWelcome()
	case auth.Expired(sess.Token, a.now()):
		a.logger.Info("Stored session expired", "user_id", sess.User.ID)
		if err := a.store.Clear(ctx); err != nil {
			a.logger.Warn("Failed to clear expired session", "error", err)
		}
		a.router.GoToWelcome()
	default:
		a.logger.Debug("Resuming session", "user_id", sess.User.ID)
		a.router.GoToMain()
	}
	return a.router.Screen()
}

// Logout clears the stored session and returns to welcome.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.router.GoToWelcome()
	return nil
}

// CurrentUser returns the logged in user, if any.
func (a *App) CurrentUser(ctx context.Context) (*models.AuthenticatedUser, bool) {
	return a.store.CurrentUser(ctx)
}

func (a *App) LoginFlow() *flow.LoginFlow {
	return flow.NewLoginFlow(a.gateway, a.store, a.router)
}

func (a *App) SignupFlow() *flow.SignupFlow {
	return flow.NewSignupFlow(a.gateway, a.store, a.router)
}

func (a *App) CreateGroupFlow() *flow.CreateGroupFlow {
	return flow.NewCreateGroupFlow(a.gateway, a.store, a.router, a.logger)
}

func (a *App) PreferencesFlow(groupID int) *flow.PreferencesFlow {
	return flow.NewPreferencesFlow(a.gateway, a.store, a.router, groupID, a.now())
}

func (a *App) SearchFlow() *flow.SearchFlow {
	return flow.NewSearchFlow(a.gateway, a.store)
}

func (a *App) SuggestionsFlow(groupID int) *flow.SuggestionsFlow {
	return flow.NewSuggestionsFlow(a.gateway, groupID)
}
