// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*chi.Mux, *fakeUserStore, *recordingSender) {
	store := newFakeUserStore()
	sender := &recordingSender{}
	svc := NewService(store, &fakeIssuer{}, sender, "MediaCat")

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	return r, store, sender
}

func postJSON(
	t *testing.T,
	router http.Handler,
	path string,
	payload any,
) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSignupThenToken(t *testing.T) {
	router, store, sender := newTestRouter()

	rec := postJSON(t, router, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var signup SignupResponse
	require.NoError(t, json.Unmarshal(env.Data, &signup))
	assert.Equal(t, "alice", signup.Username)
	require.Len(t, sender.sent, 1)

	rec = postJSON(t, router, "/auth/token", map[string]string{
		"username":          "alice",
		"confirmation_code": store.accounts["alice"].ConfirmationCode,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env = decodeEnvelope(t, rec)
	var token TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	assert.Equal(t, "token-for-alice", token.Token)
}

func TestSignupValidation(t *testing.T) {
	router, _, sender := newTestRouter()

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"missing email", map[string]string{"username": "alice"}},
		{"missing username", map[string]string{"email": "a@b.co"}},
		{"bad email", map[string]string{"username": "alice", "email": "nope"}},
		{"reserved username", map[string]string{
			"username": "me", "email": "me@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/auth/signup", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
		})
	}

	assert.Empty(t, sender.sent)
}

func TestTokenWrongCodeIsBadRequest(t *testing.T) {
	router, _, _ := newTestRouter()

	rec := postJSON(t, router, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/auth/token", map[string]string{
		"username":          "alice",
		"confirmation_code": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenUnknownUserIsNotFound(t *testing.T) {
	router, _, _ := newTestRouter()

	rec := postJSON(t, router, "/auth/token", map[string]string{
		"username":          "ghost",
		"confirmation_code": "12345",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSignupDuplicateIsConflictStyleBadRequest(t *testing.T) {
	router, _, _ := newTestRouter()

	rec := postJSON(t, router, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "new@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error.Message, "username already registered")
}
