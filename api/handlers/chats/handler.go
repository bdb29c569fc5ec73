package chats

import (
	"encoding/json"
	"net/http"

	"backend/internal/auth"
	"backend/internal/chat"

	"github.com/gin-gonic/gin"
)

// Handler 聊天记录 Handler
type Handler struct {
	service *chat.Service
}

// NewHandler 创建 Handler
func NewHandler(service *chat.Service) *Handler {
	return &Handler{service: service}
}

type saveChatRequest struct {
	Messages json.RawMessage `json:"messages" binding:"required"`
}

// Save 保存一段对话记录
// @Summary 保存对话
// @Tags Chats
// @Accept json
// @Produce json
// @Router /save_chat [post]
func (h *Handler) Save(c *gin.Context) {
	var req saveChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "messages is required"})
		return
	}

	username := auth.CurrentUser(c)
	if err := h.service.Save(c.Request.Context(), username, req.Messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// List 获取当前用户的全部对话记录
// @Summary 对话列表
// @Tags Chats
// @Produce json
// @Router /get_chats [get]
func (h *Handler) List(c *gin.Context) {
	username := auth.CurrentUser(c)

	records, err := h.service.List(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": records})
}
