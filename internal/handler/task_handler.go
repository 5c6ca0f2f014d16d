package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-hub-api/internal/dto"
	"todo-hub-api/internal/response"
)

// AddTask godoc
// @Summary      Add a task
// @Description  Appends a task to a section; a blank title gets a positional default
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Param        sectionId path string true "Section ID"
// @Param        request body dto.AddTaskRequest true "Task creation request"
// @Success      201 {object} domain.Task "Created task"
// @Failure      404 {object} map[string]string "Chain element not found"
// @Router       /project/{projectId}/card/{cardId}/section/{sectionId}/task [post]
func (h *ProjectHandler) AddTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	task, err := h.projectService.AddTask(c.Request.Context(), projectID, userID, c.Param("cardId"), c.Param("sectionId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  Applies a partial update; a present tags list replaces the whole list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Param        sectionId path string true "Section ID"
// @Param        taskId path string true "Task ID"
// @Param        request body dto.PatchTaskRequest true "Fields to update"
// @Success      200 {object} map[string]bool "Update applied"
// @Failure      404 {object} map[string]string "Chain element not found"
// @Router       /project/{projectId}/card/{cardId}/section/{sectionId}/task/{taskId} [patch]
func (h *ProjectHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.PatchTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.projectService.UpdateTask(c.Request.Context(), projectID, userID, c.Param("cardId"), c.Param("sectionId"), c.Param("taskId"), &req); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"success": true})
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Param        sectionId path string true "Section ID"
// @Param        taskId path string true "Task ID"
// @Success      200 {object} map[string]bool "Delete applied"
// @Failure      404 {object} map[string]string "Chain element not found"
// @Router       /project/{projectId}/card/{cardId}/section/{sectionId}/task/{taskId} [delete]
func (h *ProjectHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteTask(c.Request.Context(), projectID, userID, c.Param("cardId"), c.Param("sectionId"), c.Param("taskId")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"success": true})
}
