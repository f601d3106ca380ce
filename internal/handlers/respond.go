package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/havenspace/backend/internal/moderation"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ModerationErrorResponse maps pipeline errors onto HTTP responses. The
// blocked path carries the crisis resources so the client can render
// them verbatim.
func ModerationErrorResponse(c *gin.Context, err error) {
	var validationErr *moderation.ValidationError
	var blockedErr *moderation.PolicyBlockedError
	var duplicateErr *moderation.DuplicateContentError
	var rateErr *moderation.RateLimitError
	var persistErr *moderation.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		ErrorResponse(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &blockedErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "content blocked",
			"message": blockedErr.UserMessage,
		})
	case errors.As(err, &duplicateErr):
		ErrorResponse(c, http.StatusConflict, "You recently posted the same content. Please wait before posting it again.")
	case errors.As(err, &rateErr):
		ErrorResponse(c, http.StatusTooManyRequests, rateErr.Message)
	case errors.As(err, &persistErr):
		ErrorResponse(c, http.StatusInternalServerError, "Something went wrong saving your post. Please try again.")
	case errors.Is(err, moderation.ErrContentNotFound):
		ErrorResponse(c, http.StatusNotFound, "Content not found")
	case errors.Is(err, moderation.ErrNotContentAuthor):
		ErrorResponse(c, http.StatusForbidden, "Only the author may dispute this content")
	case errors.Is(err, moderation.ErrNotDisputable):
		ErrorResponse(c, http.StatusBadRequest, "Only flagged or blocked content can be disputed")
	case errors.Is(err, moderation.ErrDisputeExists):
		ErrorResponse(c, http.StatusConflict, "A dispute is already open for this content")
	case errors.Is(err, moderation.ErrDisputeResolved):
		ErrorResponse(c, http.StatusConflict, "This dispute has already been resolved")
	case errors.Is(err, moderation.ErrNotDisputeParty):
		ErrorResponse(c, http.StatusForbidden, "Only the dispute author or a moderator may withdraw it")
	case errors.Is(err, moderation.ErrBadTransition):
		ErrorResponse(c, http.StatusBadRequest, "Invalid status transition")
	default:
		ErrorResponse(c, http.StatusInternalServerError, "Internal error")
	}
}
