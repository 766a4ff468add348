package models

import "time"

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleCounsellor Role = "counsellor"
	RoleExamCeller Role = "examceller"
	RoleTeacher    Role = "teacher"
	RoleStudent    Role = "student"
)

// Identity is attached to a websocket connection after token verification
// and never changes for the lifetime of that connection.
type Identity struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	CollegeID string `json:"college_id"`
}

// Conversation is the durable entity messages attach to. Name is unique
// within a college ("announcement", "dropbox", "community_<role>",
// "classgroup_<batch>"). Conversations are created by admission/assignment
// workflows, never by the chat core.
type Conversation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CollegeID string    `bson:"college_id" json:"college_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Participant records conversation membership. It is maintained by the
// admission/assignment workflows; the chat core only reads it on the REST
// side.
type Participant struct {
	ID             string `bson:"_id,omitempty" json:"id"`
	Role           Role   `bson:"role" json:"role"`
	ConversationID string `bson:"conversation_id" json:"conversation_id"`
	UserID         string `bson:"user_id" json:"user_id"`
}

// Sender carries the display fields hydrated onto a message.
type Sender struct {
	ID    string `bson:"_id,omitempty" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Role  Role   `bson:"role" json:"role"`
}

type Message struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	SenderID       string    `bson:"sender_id" json:"sender_id"`
	Content        string    `bson:"content" json:"content"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	Sender         *Sender   `bson:"-" json:"sender,omitempty"`
}

// StudentProfile is the slice of the student record the classroom
// namespace needs: which batch the student belongs to.
type StudentProfile struct {
	UserID    string `bson:"user_id" json:"user_id"`
	BatchName string `bson:"batch_name" json:"batch_name"`
}
