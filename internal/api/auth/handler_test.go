package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ghostai-app/config"
	"ghostai-app/database"
	"ghostai-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	h := NewHandler(db, &config.Config{JWTSecret: "test-secret"})

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r, db
}

func post(t *testing.T, r *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, db := newTestRouter(t)

	w := post(t, r, "/register", map[string]any{"email": "A@X.com", "password": "hunter42x"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "token")

	// Email is stored case-normalized, tier starts free.
	user, err := users.ByEmail(db, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "free", user.SubscriptionTier)
	require.NotNil(t, user.PasswordHash)

	w = post(t, r, "/login", map[string]any{"email": "a@x.com", "password": "hunter42x"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "token")
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	w := post(t, r, "/register", map[string]any{"email": "a@x.com", "password": "short1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	r, _ := newTestRouter(t)
	w := post(t, r, "/register", map[string]any{"email": "not-an-email", "password": "hunter42x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, post(t, r, "/register", map[string]any{"email": "a@x.com", "password": "hunter42x"}).Code)
	require.Equal(t, http.StatusConflict, post(t, r, "/register", map[string]any{"email": "a@x.com", "password": "hunter42x"}).Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, post(t, r, "/register", map[string]any{"email": "a@x.com", "password": "hunter42x"}).Code)
	require.Equal(t, http.StatusUnauthorized, post(t, r, "/login", map[string]any{"email": "a@x.com", "password": "wrongpass1"}).Code)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusUnauthorized, post(t, r, "/login", map[string]any{"email": "ghost@x.com", "password": "hunter42x"}).Code)
}

func TestLoginRejectsOAuthOnlyAccount(t *testing.T) {
	r, db := newTestRouter(t)
	sub := "google-sub-1"
	require.NoError(t, db.Create(&users.User{
		Email:        "g@x.com",
		AuthProvider: "google",
		GoogleSub:    &sub,
	}).Error)

	w := post(t, r, "/login", map[string]any{"email": "g@x.com", "password": "whatever1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
