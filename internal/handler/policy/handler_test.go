package policy

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/credpolicy-api/internal/audit"
	"github.com/jwalitptl/credpolicy-api/internal/hook"
	"github.com/jwalitptl/credpolicy-api/internal/middleware"
	core "github.com/jwalitptl/credpolicy-api/internal/policy"
	"github.com/jwalitptl/credpolicy-api/pkg/security"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()

	svc := core.NewService(
		core.NewExpirationPolicy(90),
		core.NewComplexityPolicy(8, nil),
		security.NewBcryptVerifier(),
		zerolog.Nop(),
	)

	registry := hook.NewRegistry()
	registry.InstallCredentialChecker(svc)
	registry.InstallRequestChecker(svc)

	h := NewHandler(registry, audit.NewRecorder(zerolog.Nop(), nil, nil), nil)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doPost(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCheckCredential(t *testing.T) {
	engine := newTestRouter(t)
	expiry := time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("valid submission is allowed", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/credentials/check", gin.H{
			"username":   "alice",
			"secret":     "Secret1!",
			"kind":       "plaintext",
			"expires_at": expiry,
		})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "success", resp["status"])
	})

	t.Run("policy rejection returns 422 with code", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/credentials/check", gin.H{
			"username":   "alice",
			"secret":     "alicepw1!",
			"kind":       "plaintext",
			"expires_at": expiry,
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "error", resp["status"])
		assert.Equal(t, "password must not contain user name", resp["message"])
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, false, data["allowed"])
		assert.Equal(t, "contains_username", data["code"])
	})

	t.Run("missing expiration is rejected", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/credentials/check", gin.H{
			"username": "alice",
			"secret":   "Secret1!",
			"kind":     "plaintext",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "password expiration date must be specified", resp["message"])
	})

	t.Run("unknown secret kind is a binding error", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/credentials/check", gin.H{
			"username":   "alice",
			"secret":     "Secret1!",
			"kind":       "md5",
			"expires_at": expiry,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields are a binding error", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/credentials/check", gin.H{
			"username": "alice",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckRequest(t *testing.T) {
	engine := newTestRouter(t)

	t.Run("alter-role without expiration option is rejected", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/requests/check", gin.H{
			"kind":    "alter_role",
			"options": gin.H{"password": "x"},
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode(t, w)
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, "expiration_setting_required", data["code"])
	})

	t.Run("alter-role with expiration option is allowed", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/requests/check", gin.H{
			"kind":    "alter_role",
			"options": gin.H{"validUntil": "2025-07-01"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unrelated request kinds pass through", func(t *testing.T) {
		w := doPost(t, engine, "/api/v1/policy/requests/check", gin.H{
			"kind":    "create_role",
			"options": gin.H{},
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
