package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camco/camco-backend/config"
	"github.com/camco/camco-backend/middleware"
	"github.com/camco/camco-backend/models"
	"github.com/camco/camco-backend/routes"
	"github.com/camco/camco-backend/utils"
)

const testDBPath = "test.db"

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("AUTH_JWT_SECRET", "test-secret")
	os.Unsetenv("AUTH_BYPASS")
	os.Unsetenv("LOANS_DELETE_MODE")

	os.Remove(testDBPath)
	db, err := gorm.Open(sqlite.Open(testDBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(testDBPath)
	})

	return routes.SetupRouter(gin.New())
}

func createTestUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("matkhau123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return &user
}

func sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateToken(user.ID.String(), user.Username, string(user.Role))
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func auditCount(t *testing.T, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, config.DB.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}
