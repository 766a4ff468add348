package repository

import (
	"context"
	"errors"

	"github.com/campusgrid/campus-chat/internal/models"
)

// ErrNotFound is returned for any lookup miss (conversation, user,
// student profile). Callers translate it into their own error surface.
var ErrNotFound = errors.New("not found")

// ConversationRepo resolves college-scoped conversations. The chat core
// never creates conversations; admission/assignment workflows own that.
type ConversationRepo interface {
	ResolveByName(ctx context.Context, collegeID, name string) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
}

// MessageRepo appends and pages messages. Append returns the stored
// message with sender display fields hydrated so it can be fanned out
// without a second read.
type MessageRepo interface {
	Append(ctx context.Context, conversationID, senderID, content string) (*models.Message, error)
	ListPage(ctx context.Context, conversationID, cursor string, limit int64) ([]*models.Message, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*models.Sender, error)
}

type StudentRepo interface {
	Profile(ctx context.Context, userID string) (*models.StudentProfile, error)
}

// BatchRepo answers which batches a teacher is currently assigned to.
type BatchRepo interface {
	AssignedBatches(ctx context.Context, teacherID string) ([]string, error)
}
