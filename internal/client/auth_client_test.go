package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthClient_ValidateToken_Success(t *testing.T) {
	userID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/validate", r.URL.Path)
		cookie, err := r.Cookie("token")
		require.NoError(t, err)
		assert.Equal(t, "session-token", cookie.Value)

		json.NewEncoder(w).Encode(map[string]string{"userId": userID.String()})
	}))
	defer server.Close()

	c := NewAuthClient(server.URL, 5*time.Second, zap.NewNop(), nil)

	got, err := c.ValidateToken(context.Background(), "session-token")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAuthClient_ValidateToken_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewAuthClient(server.URL, 5*time.Second, zap.NewNop(), nil)

	_, err := c.ValidateToken(context.Background(), "stale")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestAuthClient_ValidateToken_Unreachable(t *testing.T) {
	c := NewAuthClient("http://127.0.0.1:1", time.Second, zap.NewNop(), nil)

	_, err := c.ValidateToken(context.Background(), "any")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestAuthClient_ValidateToken_BadUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"userId": "not-a-uuid"})
	}))
	defer server.Close()

	c := NewAuthClient(server.URL, 5*time.Second, zap.NewNop(), nil)

	_, err := c.ValidateToken(context.Background(), "session-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid user id")
}
