package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusgrid/campus-chat/internal/auth"
	"github.com/campusgrid/campus-chat/internal/models"
	"github.com/campusgrid/campus-chat/internal/repository"
	"github.com/campusgrid/campus-chat/internal/service"
)

type stubConversations struct {
	conv *models.Conversation
}

func (s *stubConversations) ResolveByName(context.Context, string, string) (*models.Conversation, error) {
	return nil, repository.ErrNotFound
}

func (s *stubConversations) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	if s.conv != nil && s.conv.ID == id {
		return s.conv, nil
	}
	return nil, repository.ErrNotFound
}

type stubMessages struct {
	msgs []*models.Message
}

func (s *stubMessages) Append(context.Context, string, string, string) (*models.Message, error) {
	return nil, repository.ErrNotFound
}

func (s *stubMessages) ListPage(_ context.Context, conversationID, cursor string, limit int64) ([]*models.Message, error) {
	return s.msgs, nil
}

func setupApp(t *testing.T, conv *models.Conversation, msgs []*models.Message) (*fiber.App, *auth.Verifier) {
	t.Helper()
	verifier, err := auth.NewVerifier("test-secret")
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	chat := service.NewChatService(&stubMessages{msgs: msgs}, nil, log)
	h := NewHistoryHandler(chat, &stubConversations{conv: conv}, log)

	app := fiber.New()
	app.Get("/api/v1/conversations/:id/messages", JWTAuth(verifier), h.Messages)
	return app, verifier
}

func bearer(t *testing.T, v *auth.Verifier, ident models.Identity) string {
	t.Helper()
	token, err := v.Sign(ident, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHistoryRequiresAuth(t *testing.T) {
	app, _ := setupApp(t, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/conversations/c/messages", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestHistoryUnknownConversation(t *testing.T) {
	app, verifier := setupApp(t, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/conversations/nope/messages", nil)
	req.Header.Set("Authorization", bearer(t, verifier, models.Identity{ID: "u1", Role: models.RoleAdmin, CollegeID: "c1"}))
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestHistoryForbiddenAcrossColleges(t *testing.T) {
	conv := &models.Conversation{ID: "conv1", Name: "announcement", CollegeID: "c1"}
	app, verifier := setupApp(t, conv, nil)

	req := httptest.NewRequest("GET", "/api/v1/conversations/conv1/messages", nil)
	req.Header.Set("Authorization", bearer(t, verifier, models.Identity{ID: "u1", Role: models.RoleAdmin, CollegeID: "c2"}))
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestHistoryReturnsPage(t *testing.T) {
	conv := &models.Conversation{ID: "conv1", Name: "announcement", CollegeID: "c1"}
	msgs := []*models.Message{
		{ID: "m2", ConversationID: "conv1", Content: "second"},
		{ID: "m1", ConversationID: "conv1", Content: "first"},
	}
	app, verifier := setupApp(t, conv, msgs)

	req := httptest.NewRequest("GET", "/api/v1/conversations/conv1/messages?limit=2", nil)
	req.Header.Set("Authorization", bearer(t, verifier, models.Identity{ID: "u1", Role: models.RoleAdmin, CollegeID: "c1"}))
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out struct {
		Messages   []models.Message `json:"messages"`
		NextCursor string           `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Messages, 2)
	require.Equal(t, "second", out.Messages[0].Content)
	require.Equal(t, "m1", out.NextCursor)
}
