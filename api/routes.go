package api

import (
	"net/http"

	authHandlers "backend/api/handlers/auth"
	chatsHandlers "backend/api/handlers/chats"
	knowledgeHandlers "backend/api/handlers/knowledge"
	nl2sqlHandlers "backend/api/handlers/nl2sql"
	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 创建 Gin 引擎并注册全部路由
func SetupRouter(cfg *config.Config, svcs *Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS(cfg.Server.CORSOrigins))

	authHandler := authHandlers.NewHandler(svcs.Auth)
	knowledgeHandler := knowledgeHandlers.NewHandler(svcs.RAG)
	chatsHandler := chatsHandlers.NewHandler(svcs.Chat)
	nl2sqlHandler := nl2sqlHandlers.NewHandler(svcs.NL2SQL)

	// 公共端点
	router.GET("/health", func(c *gin.Context) {
		if err := infra.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)

	// 需要认证的端点
	authed := router.Group("/", auth.Middleware(svcs.JWT))
	{
		authed.POST("/ingest", knowledgeHandler.Ingest)
		authed.POST("/query", knowledgeHandler.Query)
		authed.POST("/nl2sql", nl2sqlHandler.Translate)
		authed.POST("/save_chat", chatsHandler.Save)
		authed.GET("/get_chats", chatsHandler.List)
	}

	return router
}
