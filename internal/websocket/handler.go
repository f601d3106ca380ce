package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/havenspace/backend/internal/auth"
	"github.com/havenspace/backend/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, validate origin properly
		return true
	},
}

// Handler upgrades moderator feed connections
type Handler struct {
	hub        *Hub
	jwtService *auth.JWTService
	userRepo   *repository.UserRepository
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, jwtService *auth.JWTService, userRepo *repository.UserRepository) *Handler {
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// HandleFeed handles WebSocket upgrade requests for the moderator feed
func (h *Handler) HandleFeed(c *gin.Context) {
	// Get token from query parameter
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	// Feed is moderator-only
	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil || !user.IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Moderator access required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(h.hub, conn, claims.UserID)
	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
