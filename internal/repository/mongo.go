package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusgrid/campus-chat/internal/models"
)

const DefaultPageSize = 15

func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type MongoConversationRepo struct {
	col *mongo.Collection
}

func NewMongoConversationRepo(db *mongo.Database) *MongoConversationRepo {
	return &MongoConversationRepo{col: db.Collection("conversations")}
}

func (r *MongoConversationRepo) ResolveByName(ctx context.Context, collegeID, name string) (*models.Conversation, error) {
	var doc conversationDoc
	err := r.col.FindOne(ctx, bson.M{"college_id": collegeID, "name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc conversationDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return doc.model(), nil
}

type conversationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CollegeID string             `bson:"college_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *conversationDoc) model() *models.Conversation {
	return &models.Conversation{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CollegeID: d.CollegeID,
		CreatedAt: d.CreatedAt,
	}
}

type MongoMessageRepo struct {
	msgs  *mongo.Collection
	users UserRepo
}

func NewMongoMessageRepo(db *mongo.Database, users UserRepo) *MongoMessageRepo {
	return &MongoMessageRepo{msgs: db.Collection("messages"), users: users}
}

func (r *MongoMessageRepo) Append(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	doc := messageDoc{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	res, err := r.msgs.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	m := doc.model()
	sender, err := r.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("hydrate sender: %w", err)
	}
	m.Sender = sender
	return m, nil
}

// ListPage reads backward from the cursor (a message id), newest first.
// ObjectIDs are time-ordered so _id < cursor walks older messages.
func (r *MongoMessageRepo) ListPage(ctx context.Context, conversationID, cursor string, limit int64) ([]*models.Message, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	filter := bson.M{"conversation_id": conversationID}
	if cursor != "" {
		oid, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		filter["_id"] = bson.M{"$lt": oid}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := r.msgs.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var out []*models.Message
	senders := map[string]*models.Sender{}
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		m := doc.model()
		s, ok := senders[m.SenderID]
		if !ok {
			s, err = r.users.GetByID(ctx, m.SenderID)
			if err != nil && err != ErrNotFound {
				return nil, fmt.Errorf("hydrate sender: %w", err)
			}
			senders[m.SenderID] = s
		}
		m.Sender = s
		out = append(out, m)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}

type messageDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ConversationID string             `bson:"conversation_id"`
	SenderID       string             `bson:"sender_id"`
	Content        string             `bson:"content"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d *messageDoc) model() *models.Message {
	return &models.Message{
		ID:             d.ID.Hex(),
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		Content:        d.Content,
		CreatedAt:      d.CreatedAt,
	}
}

type MongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{col: db.Collection("users")}
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.Sender, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc struct {
		ID    primitive.ObjectID `bson:"_id"`
		Name  string             `bson:"name"`
		Email string             `bson:"email"`
		Role  string             `bson:"role"`
	}
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &models.Sender{ID: doc.ID.Hex(), Name: doc.Name, Email: doc.Email, Role: models.Role(doc.Role)}, nil
}

type MongoStudentRepo struct {
	col *mongo.Collection
}

func NewMongoStudentRepo(db *mongo.Database) *MongoStudentRepo {
	return &MongoStudentRepo{col: db.Collection("students")}
}

func (r *MongoStudentRepo) Profile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	if p.BatchName == "" {
		return nil, ErrNotFound
	}
	return &p, nil
}

type MongoBatchRepo struct {
	col *mongo.Collection
}

func NewMongoBatchRepo(db *mongo.Database) *MongoBatchRepo {
	return &MongoBatchRepo{col: db.Collection("batch_assignments")}
}

func (r *MongoBatchRepo) AssignedBatches(ctx context.Context, teacherID string) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{"teacher_id": teacherID})
	if err != nil {
		return nil, fmt.Errorf("list batch assignments: %w", err)
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			BatchName string `bson:"batch_name"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode batch assignment: %w", err)
		}
		if doc.BatchName != "" {
			names = append(names, doc.BatchName)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list batch assignments: %w", err)
	}
	return names, nil
}
