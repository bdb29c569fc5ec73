package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}))

	jwt := auth.NewJWTService("test-secret", "knowledge-assistant", time.Hour)
	handler := NewHandler(auth.NewService(db, jwt))

	router := gin.New()
	router.POST("/signup", handler.Signup)
	router.POST("/login", handler.Login)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Signup(t *testing.T) {
	router := setupRouter(t)

	t.Run("注册成功返回200", func(t *testing.T) {
		w := postJSON(t, router, "/signup", gin.H{"username": "alice", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp["status"])
	})

	t.Run("重复用户名返回400", func(t *testing.T) {
		w := postJSON(t, router, "/signup", gin.H{"username": "alice", "password": "other"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Username already exists", resp["detail"])
	})

	t.Run("缺少字段返回422", func(t *testing.T) {
		w := postJSON(t, router, "/signup", gin.H{"username": "charlie"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHandler_Login(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusOK,
		postJSON(t, router, "/signup", gin.H{"username": "alice", "password": "password123"}).Code)

	t.Run("登录成功返回bearer令牌", func(t *testing.T) {
		w := postJSON(t, router, "/login", gin.H{"username": "alice", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["access_token"])
		assert.Equal(t, "bearer", resp["token_type"])
	})

	t.Run("错误密码返回401", func(t *testing.T) {
		w := postJSON(t, router, "/login", gin.H{"username": "alice", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid credentials", resp["detail"])
	})

	t.Run("未注册用户返回401", func(t *testing.T) {
		w := postJSON(t, router, "/login", gin.H{"username": "nobody", "password": "password123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
