package auth

import (
	"errors"
	"net/http"

	"backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// Handler 认证 Handler
type Handler struct {
	service *auth.Service
}

// NewHandler 创建 Handler
func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup 注册新用户
// @Summary 注册
// @Tags Auth
// @Accept json
// @Produce json
// @Router /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "username and password are required"})
		return
	}

	if err := h.service.Signup(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Login 登录并签发访问令牌
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "username and password are required"})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
