package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
	"github.com/havenspace/backend/internal/moderation"
	"github.com/havenspace/backend/internal/repository"
)

type ContentHandler struct {
	lifecycle   *moderation.Lifecycle
	contentRepo *repository.ContentRepository
}

func NewContentHandler(lifecycle *moderation.Lifecycle, contentRepo *repository.ContentRepository) *ContentHandler {
	return &ContentHandler{
		lifecycle:   lifecycle,
		contentRepo: contentRepo,
	}
}

// CreateTopic submits a new discussion topic through the moderation
// pipeline
func (h *ContentHandler) CreateTopic(c *gin.Context) {
	var req models.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	post, err := h.lifecycle.Submit(moderation.Submission{
		AuthorID:    uid,
		Kind:        models.KindTopic,
		Title:       &req.Title,
		Body:        req.Body,
		TriggerTags: req.TriggerTags,
	})
	if err != nil {
		ModerationErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":    post,
		"message": moderation.UserMessage(post),
	})
}

// CreateReply submits a reply to an existing topic
func (h *ContentHandler) CreateReply(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid topic ID")
		return
	}

	var req models.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	topic, err := h.contentRepo.GetByID(topicID)
	if err != nil || topic.Kind != models.KindTopic || topic.IsRemoved {
		ErrorResponse(c, http.StatusNotFound, "Topic not found")
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	post, err := h.lifecycle.Submit(moderation.Submission{
		AuthorID:    uid,
		Kind:        models.KindReply,
		ParentID:    &topicID,
		Body:        req.Body,
		TriggerTags: req.TriggerTags,
	})
	if err != nil {
		ModerationErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":    post,
		"message": moderation.UserMessage(post),
	})
}

// ListTopics returns visible topics with pagination
func (h *ContentHandler) ListTopics(c *gin.Context) {
	var req models.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	topics, err := h.contentRepo.ListTopics(req.Limit, req.Offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list topics")
		return
	}

	c.JSON(http.StatusOK, topics)
}

// GetTopic returns a topic with its replies
func (h *ContentHandler) GetTopic(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid topic ID")
		return
	}

	topic, err := h.contentRepo.GetByID(topicID)
	if err != nil || topic.Kind != models.KindTopic || topic.IsRemoved {
		ErrorResponse(c, http.StatusNotFound, "Topic not found")
		return
	}

	replies, err := h.contentRepo.ListReplies(topicID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load replies")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topic":   topic,
		"replies": replies,
	})
}
