package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusgrid/campus-chat/internal/models"
	"github.com/campusgrid/campus-chat/internal/repository"
)

// Publisher notifies downstream consumers (notifications, search) of
// persisted messages. Best effort: a publish failure never fails the
// send.
type Publisher interface {
	MessageSent(ctx context.Context, msg *models.Message) error
}

type ChatService struct {
	messages repository.MessageRepo
	pub      Publisher
	log      *zap.SugaredLogger
}

func NewChatService(messages repository.MessageRepo, pub Publisher, log *zap.SugaredLogger) *ChatService {
	return &ChatService{messages: messages, pub: pub, log: log}
}

// Send appends the message and only then announces it. The caller fans
// out the returned hydrated message; nothing is broadcast unless the
// append succeeded.
func (s *ChatService) Send(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	msg, err := s.messages.Append(ctx, conversationID, senderID, content)
	if err != nil {
		return nil, err
	}
	if s.pub != nil {
		if err := s.pub.MessageSent(ctx, msg); err != nil {
			s.log.Warnw("publish message.sent", "message", msg.ID, "err", err)
		}
	}
	return msg, nil
}

// History pages messages newest-first from an opaque message-id cursor.
func (s *ChatService) History(ctx context.Context, conversationID, cursor string, limit int64) ([]*models.Message, error) {
	return s.messages.ListPage(ctx, conversationID, cursor, limit)
}
