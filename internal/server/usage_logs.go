package server

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

const maxActionLen = 100

type createUsageLogRequest struct {
	Action  string          `json:"action"`
	Details json.RawMessage `json:"details"`
}

func (s *Server) createUsageLog(c echo.Context) error {
	var req createUsageLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if utf8.RuneCountInString(req.Action) < 1 || utf8.RuneCountInString(req.Action) > maxActionLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be between 1 and 100 characters"})
	}

	entry, err := s.logs.Create(c.Request().Context(), tenantID(c), store.CreateUsageLogParams{
		Action:  req.Action,
		Details: req.Details,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      entry.ID,
		"message": "Usage logged successfully",
	})
}

func (s *Server) listUsageLogs(c echo.Context) error {
	logs, err := s.logs.List(c.Request().Context(), tenantID(c))
	if err != nil {
		return s.storeError(c, err)
	}

	if logs == nil {
		logs = []*models.UsageLog{}
	}

	return c.JSON(http.StatusOK, logs)
}
