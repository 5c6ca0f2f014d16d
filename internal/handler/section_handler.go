package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-hub-api/internal/dto"
	"todo-hub-api/internal/response"
)

// AddSection godoc
// @Summary      Add a section
// @Description  Appends a section to a card; a blank title gets a positional default
// @Tags         sections
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Param        request body dto.AddSectionRequest true "Section creation request"
// @Success      201 {object} domain.Section "Created section"
// @Failure      404 {object} map[string]string "Project or card not found"
// @Router       /project/{projectId}/card/{cardId}/section [post]
func (h *ProjectHandler) AddSection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	section, err := h.projectService.AddSection(c.Request.Context(), projectID, userID, c.Param("cardId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, section)
}

// UpdateSection godoc
// @Summary      Update a section
// @Tags         sections
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Param        sectionId path string true "Section ID"
// @Param        request body dto.PatchSectionRequest true "Fields to update"
// @Success      200 {object} map[string]bool "Update applied"
// @Failure      404 {object} map[string]string "Chain element not found"
// @Router       /project/{projectId}/card/{cardId}/section/{sectionId} [patch]
func (h *ProjectHandler) UpdateSection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.PatchSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.projectService.UpdateSection(c.Request.Context(), projectID, userID, c.Param("cardId"), c.Param("sectionId"), &req); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"success": true})
}

// DeleteSection godoc
// @Summary      Delete a section
// @Description  Removes a section and its tasks
// @Tags         sections
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Param        sectionId path string true "Section ID"
// @Success      200 {object} map[string]bool "Delete applied"
// @Failure      404 {object} map[string]string "Chain element not found"
// @Router       /project/{projectId}/card/{cardId}/section/{sectionId} [delete]
func (h *ProjectHandler) DeleteSection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteSection(c.Request.Context(), projectID, userID, c.Param("cardId"), c.Param("sectionId")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"success": true})
}
