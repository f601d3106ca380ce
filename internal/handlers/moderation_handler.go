package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
	"github.com/havenspace/backend/internal/repository"
)

// ModerationHandler covers the moderator-only content and crisis-log
// endpoints
type ModerationHandler struct {
	contentRepo *repository.ContentRepository
	crisisRepo  *repository.CrisisRepository
}

func NewModerationHandler(contentRepo *repository.ContentRepository, crisisRepo *repository.CrisisRepository) *ModerationHandler {
	return &ModerationHandler{
		contentRepo: contentRepo,
		crisisRepo:  crisisRepo,
	}
}

// RemoveContent soft-deletes a post; the record stays for audit
func (h *ModerationHandler) RemoveContent(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid content ID")
		return
	}

	var req models.RemoveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if err := h.contentRepo.Remove(contentID, uid, req.Reason); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to remove content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Content removed"})
}

// UpdateContentStatus forces an auto-mod status. Unlike automated
// re-classification, a moderator may transition in any direction.
func (h *ModerationHandler) UpdateContentStatus(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid content ID")
		return
	}

	var req models.UpdateContentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.contentRepo.UpdateStatus(contentID, req.Status); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update status")
		return
	}

	post, err := h.contentRepo.GetByID(contentID)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Content not found")
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListCrisisLogs returns unresolved crisis entries
func (h *ModerationHandler) ListCrisisLogs(c *gin.Context) {
	entries, err := h.crisisRepo.ListUnresolved(50)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list crisis logs")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ResolveCrisisLog stamps a crisis entry resolved
func (h *ModerationHandler) ResolveCrisisLog(c *gin.Context) {
	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid crisis log ID")
		return
	}

	if err := h.crisisRepo.MarkResolved(logID); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to resolve crisis log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Crisis log resolved"})
}
