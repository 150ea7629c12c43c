package server

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

const maxAgentTypeLen = 50

type createAgentRunRequest struct {
	ProjectID string          `json:"project_id"`
	AgentType string          `json:"agent_type"`
	InputData json.RawMessage `json:"input_data"`
}

func (s *Server) createAgentRun(c echo.Context) error {
	var req createAgentRunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	if utf8.RuneCountInString(req.AgentType) < 1 || utf8.RuneCountInString(req.AgentType) > maxAgentTypeLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "agent_type must be between 1 and 50 characters"})
	}
	if len(req.InputData) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "input_data is required"})
	}

	run, err := s.runs.Create(c.Request().Context(), tenantID(c), store.CreateAgentRunParams{
		ProjectID: projectID,
		AgentType: req.AgentType,
		InputData: req.InputData,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      run.ID,
		"status":  run.Status,
		"message": "Agent run started",
	})
}

func (s *Server) listAgentRuns(c echo.Context) error {
	var projectID *uuid.UUID
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
		}
		projectID = &id
	}

	runs, err := s.runs.List(c.Request().Context(), tenantID(c), projectID)
	if err != nil {
		return s.storeError(c, err)
	}

	if runs == nil {
		runs = []*models.AgentRun{}
	}

	return c.JSON(http.StatusOK, runs)
}
