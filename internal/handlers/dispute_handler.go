package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
	"github.com/havenspace/backend/internal/moderation"
	"github.com/havenspace/backend/internal/repository"
)

type DisputeHandler struct {
	disputes    *moderation.DisputeService
	disputeRepo *repository.DisputeRepository
}

func NewDisputeHandler(disputes *moderation.DisputeService, disputeRepo *repository.DisputeRepository) *DisputeHandler {
	return &DisputeHandler{
		disputes:    disputes,
		disputeRepo: disputeRepo,
	}
}

// CreateDispute opens a dispute against a moderation decision
func (h *DisputeHandler) CreateDispute(c *gin.Context) {
	var req models.CreateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	dispute, err := h.disputes.Open(uid, req)
	if err != nil {
		ModerationErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

// WithdrawDispute closes an open dispute without a verdict
func (h *DisputeHandler) WithdrawDispute(c *gin.Context) {
	disputeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid dispute ID")
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)
	isModerator := c.GetBool("is_moderator")

	dispute, err := h.disputes.Withdraw(disputeID, uid, isModerator)
	if err != nil {
		ModerationErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// ListOpenDisputes returns open disputes joined with content previews
// for the moderator review queue
func (h *DisputeHandler) ListOpenDisputes(c *gin.Context) {
	disputes, err := h.disputeRepo.ListOpenWithContent(50)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list disputes")
		return
	}

	c.JSON(http.StatusOK, disputes)
}

// ResolveDispute accepts or rejects a dispute (moderator only)
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	disputeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid dispute ID")
		return
	}

	var req models.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	dispute, err := h.disputes.Resolve(disputeID, uid, req.Status, req.ResolutionNotes)
	if err != nil {
		ModerationErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}
