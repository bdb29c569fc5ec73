package knowledge

import (
	"io"
	"net/http"

	"backend/internal/logger"
	"backend/internal/rag"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 知识库 Handler：文档摄取与问答检索
type Handler struct {
	service *rag.RAGService
}

// NewHandler 创建 Handler
func NewHandler(service *rag.RAGService) *Handler {
	return &Handler{service: service}
}

// Ingest 摄取文档：提取文本、分块、向量化并写入向量存储
// @Summary 摄取文档
// @Tags Knowledge
// @Accept multipart/form-data
// @Produce json
// @Router /ingest [post]
func (h *Handler) Ingest(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "file is required"})
		return
	}

	docType := c.PostForm("doc_type")
	if docType == "" {
		docType = "text"
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to read uploaded file.",
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to read uploaded file.",
		})
		return
	}

	logger.Info("收到摄取请求",
		zap.String("filename", fileHeader.Filename),
		zap.String("doc_type", docType),
		zap.Int("size", len(data)),
	)

	result := h.service.Ingest(c.Request.Context(), data, docType)
	c.JSON(http.StatusOK, result)
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Query 基于已索引文档回答问题
// @Summary 知识问答
// @Tags Knowledge
// @Accept json
// @Produce json
// @Router /query [post]
func (h *Handler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "query is required"})
		return
	}

	result, err := h.service.Query(c.Request.Context(), req.Query)
	if err != nil {
		logger.Error("查询失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
