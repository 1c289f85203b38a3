package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"giglink_backend/internal/services"
	"giglink_backend/internal/services/dto"
)

// ChatHandler is the REST face of the chat core. It mirrors the websocket
// send path for clients without a live socket; both go through the same
// service.
type ChatHandler struct {
	*BaseHandler
	chatService *services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	{
		chat.GET("/conversations", h.ListConversations)
		chat.POST("/conversations/:userId", h.GetOrCreateConversation)
		chat.GET("/conversations/:conversationId/messages", h.GetMessages)
		chat.PUT("/conversations/:conversationId/read", h.MarkConversationRead)
		chat.POST("/messages", h.SendMessage)
		chat.GET("/unread-count", h.UnreadCount)
	}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversations(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

func (h *ChatHandler) GetOrCreateConversation(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}
	otherUserID := c.Param("userId")

	conversation, err := h.chatService.GetOrCreateConversation(userID, otherUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("conversationId")

	limit := ParseQueryInt(c, "limit", 0)
	offset := ParseQueryInt(c, "offset", 0)

	messages, err := h.chatService.GetMessages(conversationID, userID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessagePage{
		Messages: messages,
		Count:    len(messages),
	})
}

func (h *ChatHandler) MarkConversationRead(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("conversationId")

	if err := h.chatService.MarkConversationRead(conversationID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked as read"})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageInput
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.SenderID = userID

	message, err := h.chatService.SendMessage(req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	count, err := h.chatService.UnreadCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
