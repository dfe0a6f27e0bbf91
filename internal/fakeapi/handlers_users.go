package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/triptangle/internal/auth"
	"github.com/mmynk/triptangle/internal/models"
)

// register handles POST /users/register
func (s *Server) register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	if strings.TrimSpace(req.Username) == "" || !strings.Contains(req.Email, "@") {
		return detail(c, http.StatusUnprocessableEntity, "username and a valid email are required")
	}

	user, err := s.authn.Register(c.Request().Context(), req)
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return detail(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, auth.ErrUsernameExists):
		return detail(c, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, auth.ErrWeakPassword):
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		s.logger.Error("Register failed", "error", err)
		return detail(c, http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, user)
}

// login handles POST /users/login
func (s *Server) login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "invalid request body")
	}

	user, err := s.authn.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return detail(c, http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        *user,
	})
}

// searchUsers handles GET /users/search/?query=&current_user_id=
func (s *Server) searchUsers(c echo.Context) error {
	query := c.QueryParam("query")
	current, err := strconv.Atoi(c.QueryParam("current_user_id"))
	if !c.QueryParams().Has("query") || err != nil {
		return detail(c, http.StatusUnprocessableEntity, "query and current_user_id are required")
	}

	return c.JSON(http.StatusOK, s.store.searchUsers(query, current))
}

// getUser handles GET /users/:id
func (s *Server) getUser(c echo.Context) error {
	id, ok := intParam(c, "id")
	if !ok {
		return nil
	}
	user, found := s.store.getUser(id)
	if !found {
		return detail(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}
