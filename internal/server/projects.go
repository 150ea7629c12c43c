package server

import (
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

const (
	maxProjectNameLen        = 100
	maxProjectDescriptionLen = 500
)

type createProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) createProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if utf8.RuneCountInString(req.Name) < 1 || utf8.RuneCountInString(req.Name) > maxProjectNameLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be between 1 and 100 characters"})
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > maxProjectDescriptionLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description must be at most 500 characters"})
	}

	project, err := s.projects.Create(c.Request().Context(), tenantID(c), store.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      project.ID,
		"message": "Project created successfully",
	})
}

func (s *Server) listProjects(c echo.Context) error {
	projects, err := s.projects.List(c.Request().Context(), tenantID(c))
	if err != nil {
		return s.storeError(c, err)
	}

	if projects == nil {
		projects = []*models.Project{}
	}

	return c.JSON(http.StatusOK, projects)
}

func (s *Server) getProject(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	project, err := s.projects.Get(c.Request().Context(), tenantID(c), projectID)
	if err != nil {
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusOK, project)
}

func (s *Server) updateProject(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Name != nil && (utf8.RuneCountInString(*req.Name) < 1 || utf8.RuneCountInString(*req.Name) > maxProjectNameLen) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be between 1 and 100 characters"})
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > maxProjectDescriptionLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description must be at most 500 characters"})
	}

	err = s.projects.Update(c.Request().Context(), tenantID(c), projectID, store.UpdateProjectParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Project updated successfully"})
}

func (s *Server) deleteProject(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	if err := s.projects.Delete(c.Request().Context(), tenantID(c), projectID); err != nil {
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Project deleted successfully"})
}
