package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-hub-api/internal/dto"
	"todo-hub-api/internal/response"
)

// AddCard godoc
// @Summary      Add a card
// @Description  Appends a card to the project; a blank title gets a positional default
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.AddCardRequest true "Card creation request"
// @Success      201 {object} domain.Card "Created card"
// @Failure      404 {object} map[string]string "Project not found"
// @Router       /project/{projectId}/card [post]
func (h *ProjectHandler) AddCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.projectService.AddCard(c.Request.Context(), projectID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, card)
}

// UpdateCard godoc
// @Summary      Update a card
// @Description  Applies a partial update; an explicit null dueDate clears it
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Param        request body dto.PatchCardRequest true "Fields to update"
// @Success      200 {object} map[string]bool "Update applied"
// @Failure      404 {object} map[string]string "Project or card not found"
// @Router       /project/{projectId}/card/{cardId} [patch]
func (h *ProjectHandler) UpdateCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.PatchCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.projectService.UpdateCard(c.Request.Context(), projectID, userID, c.Param("cardId"), &req); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"success": true})
}

// DeleteCard godoc
// @Summary      Delete a card
// @Description  Removes a card and its sections and tasks
// @Tags         cards
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        cardId path string true "Card ID"
// @Success      200 {object} map[string]bool "Delete applied"
// @Failure      404 {object} map[string]string "Project or card not found"
// @Router       /project/{projectId}/card/{cardId} [delete]
func (h *ProjectHandler) DeleteCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteCard(c.Request.Context(), projectID, userID, c.Param("cardId")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"success": true})
}
