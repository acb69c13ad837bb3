package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"virtual-attendant-be/internal/bootstrap"
	"virtual-attendant-be/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Setenv("LOG_FILE_PATH", filepath.Join(t.TempDir(), "attendant.log"))
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("REDIS_URL", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	t.Setenv("JWT_SECRET", "integration-secret")

	cfg := config.Load()
	container, err := bootstrap.NewContainer(nil, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, container.Start(ctx))
	t.Cleanup(func() {
		cancel()
		container.Wait()
		container.Close()
	})

	return New(cfg, container).GetApp()
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	code, out := call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, 200, code)

	var data struct {
		Flows      []string `json:"flows"`
		Intentions int      `json:"intentions"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	assert.Contains(t, data.Flows, "DEBITOS")
	assert.Contains(t, data.Flows, "CERTIDAO")
	assert.Greater(t, data.Intentions, 0)
}

func TestConversationOverHTTP(t *testing.T) {
	app := newTestApp(t)

	code, out := call(t, app, http.MethodPost, "/api/messages", "", map[string]string{
		"caller_id": "5511999990000",
		"text":      "1",
	})
	require.Equal(t, 200, code)

	var msg struct {
		State struct {
			Flow string `json:"flow"`
		} `json:"state"`
		Reply struct {
			Body string `json:"body"`
		} `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &msg))
	assert.Equal(t, "DEBITOS", msg.State.Flow)
	assert.NotEmpty(t, msg.Reply.Body)

	code, _ = call(t, app, http.MethodPost, "/api/messages", "", map[string]string{"caller_id": "5511999990000"})
	assert.Equal(t, 400, code)
}

func TestAdminSurface(t *testing.T) {
	app := newTestApp(t)

	code, _ := call(t, app, http.MethodGet, "/api/admin/intentions", "", nil)
	assert.Equal(t, 401, code)

	code, _ = call(t, app, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, 401, code)

	code, out := call(t, app, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, 200, code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &login))
	require.NotEmpty(t, login.AccessToken)
	tok := login.AccessToken

	code, _ = call(t, app, http.MethodGet, "/api/admin/intentions", tok, nil)
	assert.Equal(t, 200, code)

	code, _ = call(t, app, http.MethodGet, "/api/admin/sessions/nobody", tok, nil)
	assert.Equal(t, 404, code)

	call(t, app, http.MethodPost, "/api/messages", "", map[string]string{"caller_id": "42", "text": "1"})
	code, _ = call(t, app, http.MethodGet, "/api/admin/sessions/42", tok, nil)
	assert.Equal(t, 200, code)
	code, _ = call(t, app, http.MethodDelete, "/api/admin/sessions/42", tok, nil)
	assert.Equal(t, 200, code)

	// no database configured
	code, _ = call(t, app, http.MethodGet, "/api/admin/turns", tok, nil)
	assert.Equal(t, 503, code)
}
