package handlers

import (
	"net/http"

	"campus-sublets/internal/middleware"
	"campus-sublets/internal/models"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService MessageService
}

func NewMessageHandler(messageService MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessage godoc
// @Summary Send a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param message body models.SendMessageRequest true "Message"
// @Security BearerAuth
// @Success 201 {object} models.Message
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessages godoc
// @Summary List my messages
// @Description Messages sent or received by the caller, newest first
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.Message
// @Failure 401 {object} map[string]interface{}
// @Router /messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageService.Inbox(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

// Conversation godoc
// @Summary Conversation with a user
// @Description Messages between the caller and another user, oldest first
// @Tags Messages
// @Produce json
// @Param userId path string true "Other user ID"
// @Security BearerAuth
// @Success 200 {object} map[string][]models.Message
// @Failure 401 {object} map[string]interface{}
// @Router /messages/conversations/{userId} [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	messages, err := h.messageService.Conversation(c.Request.Context(), middleware.CurrentUserID(c), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

// MarkRead godoc
// @Summary Mark a message as read
// @Description Only the receiver may mark a message as read
// @Tags Messages
// @Produce json
// @Param id path string true "Message ID"
// @Security BearerAuth
// @Success 200 {object} models.Message
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /messages/{id}/read [patch]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	message, err := h.messageService.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, message)
}
