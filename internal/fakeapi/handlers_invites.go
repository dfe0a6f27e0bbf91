package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/triptangle/internal/models"
)

// sendInvite handles POST /invites/invites/send
func (s *Server) sendInvite(c echo.Context) error {
	var req models.InviteCreate
	if err := c.Bind(&req); err != nil || req.GroupID == 0 || req.InvitedUserID == 0 {
		return detail(c, http.StatusUnprocessableEntity, "group_id and invited_user_id are required")
	}
	if _, err := s.store.getGroup(req.GroupID); err != nil {
		return detail(c, http.StatusNotFound, err.Error())
	}

	inv, err := s.store.createInvite(models.Invite{
		GroupID:         req.GroupID,
		InvitedUserID:   req.InvitedUserID,
		InvitedByUserID: req.InvitedByUserID,
		CreatedAt:       timestamp(s.now()),
	})
	if errors.Is(err, errAlreadyInvited) {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, inv)
}

// listInvites handles GET /invites/invites/me/:user_id
func (s *Server) listInvites(c echo.Context) error {
	userID, ok := intParam(c, "user_id")
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, s.store.pendingInvites(userID))
}

// acceptInvite handles POST /invites/invites/accept/:id
func (s *Server) acceptInvite(c echo.Context) error {
	id, ok := intParam(c, "id")
	if !ok {
		return nil
	}
	// Decoded directly: echo's binder would copy path params into the map.
	var prefs map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&prefs); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "invalid request body")
	}

	switch err := s.store.acceptInvite(id, prefs); {
	case errors.Is(err, errInviteNotFound):
		return detail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errAlreadyAccepted):
		return detail(c, http.StatusBadRequest, err.Error())
	case err != nil:
		return detail(c, http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, map[string]string{"msg": "Invite accepted, preferences saved, and user added to group."})
}

// declineInvite handles DELETE /invites/invites/:id
func (s *Server) declineInvite(c echo.Context) error {
	id, ok := intParam(c, "id")
	if !ok {
		return nil
	}
	if err := s.store.deleteInvite(id); err != nil {
		return detail(c, http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"msg": "Invite declined/deleted."})
}
