package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/triptangle/internal/middleware"
	"github.com/mmynk/triptangle/internal/models"
)

// joinBody mirrors the backend's GroupJoin schema: preferences is an open object.
type joinBody struct {
	UserID      int            `json:"user_id"`
	Preferences map[string]any `json:"preferences"`
}

// createGroup handles POST /groups/groups/
func (s *Server) createGroup(c echo.Context) error {
	var req models.GroupCreateRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return detail(c, http.StatusUnprocessableEntity, "name is required")
	}
	if req.CreatedBy == 0 {
		req.CreatedBy = middleware.GetUserID(c)
	}
	if _, ok := s.store.getUser(req.CreatedBy); !ok {
		return detail(c, http.StatusNotFound, "User not found")
	}

	group := s.store.createGroup(models.GroupOut{
		Name:        req.Name,
		CreatedBy:   req.CreatedBy,
		GroupPhoto:  req.GroupPhoto,
		IsPublic:    req.IsPublic,
		CreatedDate: timestamp(s.now()),
	})
	s.logger.Info("Group created", "group_id", group.ID, "created_by", group.CreatedBy)

	return c.JSON(http.StatusOK, group)
}

// getGroup handles GET /groups/groups/:id
func (s *Server) getGroup(c echo.Context) error {
	id, ok := intParam(c, "id")
	if !ok {
		return nil
	}
	group, err := s.store.getGroup(id)
	if err != nil {
		return detail(c, http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, group)
}

// listGroups handles GET /groups/groups/?user_id=
func (s *Server) listGroups(c echo.Context) error {
	userID, err := strconv.Atoi(c.QueryParam("user_id"))
	if err != nil {
		return detail(c, http.StatusUnprocessableEntity, "user_id is required")
	}
	return c.JSON(http.StatusOK, s.store.groupsForUser(userID))
}

// joinGroup handles POST /groups/groups/join/:id
func (s *Server) joinGroup(c echo.Context) error {
	id, ok := intParam(c, "id")
	if !ok {
		return nil
	}
	var body joinBody
	if err := c.Bind(&body); err != nil || body.UserID == 0 || body.Preferences == nil {
		return detail(c, http.StatusUnprocessableEntity, "user_id and preferences are required")
	}

	if err := s.store.addMember(id, body.UserID, body.Preferences); err != nil {
		if errors.Is(err, errGroupNotFound) {
			return detail(c, http.StatusNotFound, err.Error())
		}
		return detail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	s.logger.Info("Member joined group", "group_id", id, "user_id", body.UserID)

	return c.JSON(http.StatusOK, map[string]string{"message": "Joined group successfully"})
}

// analyzeGroup handles GET /groups/groups/:id/analyze
func (s *Server) analyzeGroup(c echo.Context) error {
	id, ok := intParam(c, "id")
	if !ok {
		return nil
	}

	members := s.store.groupMembers(id)
	if len(members) == 0 {
		return detail(c, http.StatusNotFound, "No members in group.")
	}

	var prefs []map[string]any
	for _, m := range members {
		if len(m.Preferences) > 0 {
			prefs = append(prefs, m.Preferences)
		}
	}
	if len(prefs) == 0 {
		return detail(c, http.StatusBadRequest, "Members haven't filled preferences.")
	}

	aggregated := aggregatePreferences(prefs, s.now())
	suggestions := suggestDestinations(aggregated)

	return c.JSON(http.StatusOK, models.AnalyzeResponse{
		GroupID:               id,
		AggregatedPreferences: aggregated,
		SuggestedDestinations: suggestions,
	})
}
