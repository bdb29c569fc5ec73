package nl2sql

import (
	"net/http"

	"backend/internal/logger"
	"backend/internal/nl2sql"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 自然语言转 SQL Handler
type Handler struct {
	service *nl2sql.Service
}

// NewHandler 创建 Handler
func NewHandler(service *nl2sql.Service) *Handler {
	return &Handler{service: service}
}

type translateRequest struct {
	Question string `json:"question" binding:"required"`
}

// Translate 把自然语言问题翻译为 SQL
// @Summary 自然语言转 SQL
// @Tags NL2SQL
// @Accept json
// @Produce json
// @Router /nl2sql [post]
func (h *Handler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "question is required"})
		return
	}

	result, err := h.service.Translate(c.Request.Context(), req.Question)
	if err != nil {
		logger.Error("NL2SQL 翻译失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
