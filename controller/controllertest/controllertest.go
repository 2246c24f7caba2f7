// Package controllertest holds helpers shared by the HTTP handler tests.
package controllertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"disasterprep/config"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func Tokens() *middleware.TokenManager {
	return middleware.NewTokenManager(config.Auth{
		JWTSecret:  "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

// Users opens a throwaway in-memory sqlite user table.
func Users(t *testing.T) *repository.UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := repository.NewUserRepository(db)
	require.NoError(t, users.Migrate())
	return users
}

// Token signs an access token for a caller with the given id and role.
func Token(t *testing.T, tm *middleware.TokenManager, id uint, role model.Role) string {
	t.Helper()
	tok, err := tm.CreateAccessToken(&model.User{UserID: id, Role: role, Name: "user"})
	require.NoError(t, err)
	return tok
}

// Do sends one request through router. body is JSON-encoded unless it is
// already a string; token is sent as a bearer credential when non-empty.
func Do(router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Decode unmarshals a response body into a generic map.
func Decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// DecodeInto unmarshals one top-level field of the response into out.
func DecodeInto(t *testing.T, w *httptest.ResponseRecorder, field string, out any) {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	v, ok := raw[field]
	require.True(t, ok, "response has no %q field: %s", field, w.Body.String())
	require.NoError(t, json.Unmarshal(v, out))
}
