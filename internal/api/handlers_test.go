package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Akki1725/socially/internal/auth"
	"github.com/Akki1725/socially/internal/config"
	"github.com/Akki1725/socially/internal/identity"
	"github.com/Akki1725/socially/internal/models"
	"github.com/Akki1725/socially/internal/repository"
	"github.com/Akki1725/socially/internal/service"
	"github.com/Akki1725/socially/internal/ws"
)

const testSecret = "handler-test-secret"

type fakeDirectory struct {
	users map[string]models.UserProfile
}

func (d *fakeDirectory) Lookup(_ context.Context, userID string) (*models.UserProfile, error) {
	p, ok := d.users[userID]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return &p, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := &fakeDirectory{users: map[string]models.UserProfile{
		"u1": {ID: "u1", Username: "alice", ProfilePicture: "a.png"},
		"u2": {ID: "u2", Username: "bob", ProfilePicture: "b.png"},
	}}
	log := zap.NewNop().Sugar()
	hub := ws.NewHub(nil, log)
	svc := service.NewChatService(repository.NewMemoryRepository(), dir, hub, nil, log)
	validator, err := auth.NewValidator("HS256", testSecret, "")
	require.NoError(t, err)
	cfg := &config.Config{}
	return NewServer(cfg, svc, dir, hub, validator, log)
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/chats", "/api/chats/u2", "/api/users/u2"} {
		resp, _ := doJSON(t, s, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp, _ := doJSON(t, s, http.MethodGet, "/api/chats", "Bearer not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSendAndListFlow(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	tok1 := bearer(t, "u1")
	tok2 := bearer(t, "u2")

	// u1 sends a message; text comes back trimmed with the sender resolved
	resp, body := doJSON(t, s, http.MethodPost, "/api/chats/u2/messages", tok1,
		map[string]string{"text": " hello "})
	req.Equal(http.StatusCreated, resp.StatusCode)
	var sent models.MessageView
	req.NoError(json.Unmarshal(body, &sent))
	req.Equal("hello", sent.Text)
	req.Equal("alice", sent.Sender.Username)
	req.NotEmpty(sent.ID)

	// u2 answers
	resp, _ = doJSON(t, s, http.MethodPost, "/api/chats/u1/messages", tok2,
		map[string]string{"text": "hi back"})
	req.Equal(http.StatusCreated, resp.StatusCode)

	// both sides see the same thread in order
	resp, body = doJSON(t, s, http.MethodGet, "/api/chats/u1", tok2, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var detail models.ConversationDetail
	req.NoError(json.Unmarshal(body, &detail))
	req.Equal("alice", detail.OtherParticipant.Username)
	req.Len(detail.Messages, 2)
	req.Equal("hello", detail.Messages[0].Text)
	req.Equal("hi back", detail.Messages[1].Text)

	// the list shows the last message
	resp, body = doJSON(t, s, http.MethodGet, "/api/chats", tok1, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var sums []models.ConversationSummary
	req.NoError(json.Unmarshal(body, &sums))
	req.Len(sums, 1)
	req.Equal("bob", sums[0].OtherParticipant.Username)
	req.NotNil(sums[0].LastMessage)
	req.Equal("hi back", sums[0].LastMessage.Text)
}

func TestSendMessageValidation(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	tok := bearer(t, "u1")

	resp, body := doJSON(t, s, http.MethodPost, "/api/chats/u2/messages", tok,
		map[string]string{"text": "   "})
	req.Equal(http.StatusBadRequest, resp.StatusCode)
	req.Contains(string(body), "error")

	resp, _ = doJSON(t, s, http.MethodPost, "/api/chats/u1/messages", tok,
		map[string]string{"text": "hi"})
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, s, http.MethodPost, "/api/chats/nobody/messages", tok,
		map[string]string{"text": "hi"})
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestGetChatValidation(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	tok := bearer(t, "u1")

	resp, _ := doJSON(t, s, http.MethodGet, "/api/chats/u1", tok, nil)
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, s, http.MethodGet, "/api/chats/nobody", tok, nil)
	req.Equal(http.StatusNotFound, resp.StatusCode)

	// opening a chat creates it empty
	resp, body := doJSON(t, s, http.MethodGet, "/api/chats/u2", tok, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var detail models.ConversationDetail
	req.NoError(json.Unmarshal(body, &detail))
	req.Empty(detail.Messages)
	req.Equal("bob", detail.OtherParticipant.Username)
}

func TestGetUser(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	tok := bearer(t, "u1")

	resp, body := doJSON(t, s, http.MethodGet, "/api/users/u2", tok, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var p models.UserProfile
	req.NoError(json.Unmarshal(body, &p))
	req.Equal("bob", p.Username)

	resp, _ = doJSON(t, s, http.MethodGet, "/api/users/nobody", tok, nil)
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	resp, body := doJSON(t, s, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}
