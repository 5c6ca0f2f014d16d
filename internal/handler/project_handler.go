package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/dto"
	"todo-hub-api/internal/middleware"
	"todo-hub-api/internal/response"
	"todo-hub-api/internal/service"
)

// ProjectHandler handles the board tree endpoints. Project level operations
// live here; card, section and task operations are in their own files.
type ProjectHandler struct {
	projectService service.ProjectService
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// currentUser reads the authenticated user or writes a 401
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
	}
	return userID, ok
}

// parseProjectID parses the projectId path param or writes a 400
func parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid project ID")
		return uuid.Nil, false
	}
	return projectID, true
}

// CreateProject godoc
// @Summary      Create a project
// @Description  Creates an empty project owned by the authenticated user
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateProjectRequest true "Project creation request"
// @Success      201 {object} domain.Project "Created project"
// @Failure      400 {object} map[string]string "Invalid request"
// @Failure      401 {object} map[string]string "Not authenticated"
// @Router       /project [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Title is required")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), &req, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, project)
}

// GetProjects godoc
// @Summary      List projects
// @Description  Lists the authenticated user's projects with their full trees
// @Tags         projects
// @Produce      json
// @Success      200 {array} domain.Project "Projects"
// @Failure      401 {object} map[string]string "Not authenticated"
// @Router       /project [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projects, err := h.projectService.GetProjects(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if projects == nil {
		// Empty list serializes as [] rather than null
		projects = []*domain.Project{}
	}

	response.SendSuccess(c, http.StatusOK, projects)
}

// GetProject godoc
// @Summary      Get a project
// @Description  Fetches one project with its full card/section/task tree
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} domain.Project "Project"
// @Failure      404 {object} map[string]string "Project not found"
// @Router       /project/{projectId} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// UpdateProject godoc
// @Summary      Update a project
// @Description  Applies a partial update; absent fields are untouched
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.PatchProjectRequest true "Fields to update"
// @Success      200 {object} domain.Project "Updated project"
// @Failure      400 {object} map[string]string "Invalid request"
// @Failure      404 {object} map[string]string "Project not found"
// @Router       /project/{projectId} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.PatchProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), projectID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary      Delete a project
// @Description  Deletes a project and everything under it
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} map[string]bool "Delete applied"
// @Failure      404 {object} map[string]string "Project not found"
// @Router       /project/{projectId} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"success": true})
}
