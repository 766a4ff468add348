package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusgrid/campus-chat/internal/models"
)

type fakeMessages struct {
	appended  int
	failWith  error
	lastLimit int64
	lastCur   string
}

func (f *fakeMessages) Append(_ context.Context, conversationID, senderID, content string) (*models.Message, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.appended++
	return &models.Message{
		ID:             "m1",
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Sender:         &models.Sender{ID: senderID},
	}, nil
}

func (f *fakeMessages) ListPage(_ context.Context, conversationID, cursor string, limit int64) ([]*models.Message, error) {
	f.lastCur = cursor
	f.lastLimit = limit
	return []*models.Message{{ID: "m1", ConversationID: conversationID}}, nil
}

type fakePublisher struct {
	published []*models.Message
	err       error
}

func (f *fakePublisher) MessageSent(_ context.Context, msg *models.Message) error {
	f.published = append(f.published, msg)
	return f.err
}

func TestSendPublishesAfterAppend(t *testing.T) {
	repo := &fakeMessages{}
	pub := &fakePublisher{}
	svc := NewChatService(repo, pub, zap.NewNop().Sugar())

	msg, err := svc.Send(context.Background(), "conv1", "u1", "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", msg.Content)
	require.NotNil(t, msg.Sender)
	require.Len(t, pub.published, 1)
	require.Equal(t, msg, pub.published[0])
}

func TestSendAppendFailureDoesNotPublish(t *testing.T) {
	repo := &fakeMessages{failWith: errors.New("store down")}
	pub := &fakePublisher{}
	svc := NewChatService(repo, pub, zap.NewNop().Sugar())

	_, err := svc.Send(context.Background(), "conv1", "u1", "hello")
	require.Error(t, err)
	require.Empty(t, pub.published)
}

func TestSendSurvivesPublishFailure(t *testing.T) {
	repo := &fakeMessages{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewChatService(repo, pub, zap.NewNop().Sugar())

	msg, err := svc.Send(context.Background(), "conv1", "u1", "hello")
	require.NoError(t, err)
	require.NotNil(t, msg)
}

func TestHistoryPassesCursorAndLimit(t *testing.T) {
	repo := &fakeMessages{}
	svc := NewChatService(repo, nil, zap.NewNop().Sugar())

	msgs, err := svc.History(context.Background(), "conv1", "cur123", 20)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "cur123", repo.lastCur)
	require.EqualValues(t, 20, repo.lastLimit)
}
