package chat

import (
	"errors"
	"net/http"
	"strconv"

	"backoffice/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin checks happen in the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	chatGroup := rg.Group("/chat")
	{
		chatGroup.POST("/conversations", h.CreateConversation)
		chatGroup.GET("/conversations", h.ListConversations)
		chatGroup.GET("/conversations/:id/messages", h.GetMessages)
		chatGroup.POST("/conversations/:id/messages", h.SendMessage)
		chatGroup.POST("/conversations/:id/read", h.MarkAsRead)
		chatGroup.GET("/unread", h.TotalUnread)
		chatGroup.GET("/ws", h.WebSocket)
	}
}

func (h *Handler) CreateConversation(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	conv, initial, err := h.service.CreateConversation(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one other participant is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create conversation")
		return
	}

	out := gin.H{"conversation": conv}
	if initial != nil {
		out["initial_message"] = initial
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) ListConversations(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	convs, err := h.service.ListConversations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list conversations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": convs})
}

func (h *Handler) GetMessages(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID, ok := pathID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var beforeID *int64
	if v := c.Query("before_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "before_id must be an integer")
			return
		}
		beforeID = &id
	}

	msgs, hasMore, err := h.service.GetMessages(c.Request.Context(), userID, conversationID, limit, beforeID)
	if err != nil {
		if errors.Is(err, ErrNotParticipant) {
			response.Error(c, http.StatusForbidden, "NOT_PARTICIPANT", "You are not a participant of this conversation")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load messages")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"messages": msgs,
		"has_more": hasMore,
	})
}

func (h *Handler) SendMessage(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID, ok := pathID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message content is required")
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), userID, conversationID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotParticipant):
			response.Error(c, http.StatusForbidden, "NOT_PARTICIPANT", "You are not a participant of this conversation")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message content is required")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID, ok := pathID(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkAsRead(c.Request.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, ErrNotParticipant) {
			response.Error(c, http.StatusForbidden, "NOT_PARTICIPANT", "You are not a participant of this conversation")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark messages as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

func (h *Handler) TotalUnread(c *gin.Context) {
	userID := c.GetInt64("user_id")
	count, err := h.service.TotalUnread(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count unread messages")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

// WebSocket upgrades the request and keeps the connection in the hub until
// the client disconnects. The server only pushes; incoming frames are
// drained and discarded.
func (h *Handler) WebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid conversation ID")
		return 0, false
	}
	return id, true
}
