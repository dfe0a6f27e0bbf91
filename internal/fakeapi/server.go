// Package fakeapi is an in-memory stand-in for the TripTangle backend. It speaks the
// same JSON contract (routes, snake_case fields, FastAPI-style {"detail": ...} errors)
// so the client can be exercised end to end without the real service.
package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mmynk/triptangle/internal/auth"
	"github.com/mmynk/triptangle/internal/middleware"
	"github.com/mmynk/triptangle/internal/models"
)

// Config configures a fake backend.
type Config struct {
	// JWTSecret signs access tokens. Defaults to a fixed development secret.
	JWTSecret string
	// TokenTTL is the access token lifetime. Defaults to 60 minutes like the backend.
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Logger     *slog.Logger
}

// Server is the fake backend.
type Server struct {
	echo     *echo.Echo
	store    *Store
	authn    *auth.PasswordAuthenticator
	jwt      *auth.JWTManager
	logger   *slog.Logger
	now      func() time.Time
	requests atomic.Int64
}

// New creates a fake backend with all routes registered.
func New(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "triptangle-dev-secret"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 60 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	store := NewStore()
	authn := auth.NewPasswordAuthenticator(store)
	if cfg.BcryptCost != 0 {
		authn.WithCost(cfg.BcryptCost)
	}

	s := &Server{
		echo:   echo.New(),
		store:  store,
		authn:  authn,
		jwt:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		logger: cfg.Logger,
		now:    time.Now,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.echo.Use(s.countRequests)
	s.echo.Use(echomw.Recover())
	s.echo.Use(middleware.RequestLogger(cfg.Logger))
	s.registerRoutes()
	return s
}

// Echo exposes the router so callers can mount extra routes (e.g. /metrics).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// RequestCount returns how many requests reached the backend.
func (s *Server) RequestCount() int64 {
	return s.requests.Load()
}

// SeedUser registers a user directly, bypassing HTTP.
func (s *Server) SeedUser(ctx context.Context, req models.RegisterRequest) (*models.AuthenticatedUser, error) {
	return s.authn.Register(ctx, req)
}

// IssueToken signs an access token for user, bypassing login.
func (s *Server) IssueToken(user models.AuthenticatedUser) (string, error) {
	return s.jwt.Generate(user.ID, user.Email)
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.requests.Add(1)
		return next(c)
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	users := s.echo.Group("/users")
	users.POST("/register", s.register)
	users.POST("/login", s.login)
	users.GET("/search/", s.searchUsers)
	users.GET("/:id", s.getUser)

	groups := s.echo.Group("/groups/groups")
	groups.POST("/", s.createGroup, middleware.RequireAuth(s.jwt))
	groups.GET("/", s.listGroups, middleware.OptionalAuth(s.jwt))
	groups.GET("/:id", s.getGroup, middleware.OptionalAuth(s.jwt))
	groups.POST("/join/:id", s.joinGroup, middleware.RequireAuth(s.jwt))
	groups.GET("/:id/analyze", s.analyzeGroup, middleware.OptionalAuth(s.jwt))

	invites := s.echo.Group("/invites/invites", middleware.OptionalAuth(s.jwt))
	invites.POST("/send", s.sendInvite)
	invites.GET("/me/:user_id", s.listInvites)
	invites.POST("/accept/:id", s.acceptInvite)
	invites.DELETE("/:id", s.declineInvite)
}

// detail writes a FastAPI-style error body. The body is written without echo's
// trailing newline so clients see exactly what FastAPI would send.
func detail(c echo.Context, status int, msg string) error {
	body, err := json.Marshal(map[string]string{"detail": msg})
	if err != nil {
		return err
	}
	return c.JSONBlob(status, body)
}

// handleError renders router errors (unknown route, wrong method) in the same
// {"detail": ...} shape as handler errors.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := http.StatusInternalServerError, "Internal Server Error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		msg = http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	} else {
		s.logger.Error("Unhandled error", "path", c.Request().URL.Path, "error", err)
	}
	if err := detail(c, status, msg); err != nil {
		s.logger.Error("Failed to write error response", "error", err)
	}
}

// intParam parses a path parameter, answering 422 like FastAPI on failure.
func intParam(c echo.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, name+" must be an integer")
		return 0, false
	}
	return v, true
}

// timestamp formats t the way the backend serializes datetimes.
func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z07:00")
}
