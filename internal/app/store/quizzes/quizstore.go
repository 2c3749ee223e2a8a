package quizstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/quizhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no quiz matches, including when the quiz
// exists but belongs to a different creator.
var ErrNotFound = errors.New("quiz not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("quizzes")}
}

// EnsureIndexes creates the creator listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "creator_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_creator_created"),
	})
	return err
}

// Create inserts q, assigning an ID and timestamps.
func (s *Store) Create(ctx context.Context, q models.Quiz) (models.Quiz, error) {
	now := time.Now().UTC()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.Questions == nil {
		q.Questions = []models.Question{}
	}
	q.CreatedAt = now
	q.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, q); err != nil {
		return models.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return q, nil
}

// ListByCreator returns the creator's quizzes, newest first. An empty
// result is a non-nil empty slice.
func (s *Store) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Quiz, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"creator_id": creatorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find quizzes: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Quiz{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode quizzes: %w", err)
	}
	return out, nil
}

// GetByID loads a quiz regardless of owner; callers check CreatorID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	var q models.Quiz
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find quiz: %w", err)
	}
	return &q, nil
}

// Update is a full replacement of a quiz's editable content.
// A nil IsPublic leaves visibility unchanged.
type Update struct {
	Title       string
	Description string
	Image       string
	Category    string
	IsPublic    *bool
	Questions   []models.Question
}

// Update writes upd to the quiz identified by (creatorID, quizID).
func (s *Store) Update(ctx context.Context, creatorID, quizID primitive.ObjectID, upd Update) error {
	questions := upd.Questions
	if questions == nil {
		questions = []models.Question{}
	}
	set := bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"image":       upd.Image,
		"category":    upd.Category,
		"questions":   questions,
		"updated_at":  time.Now().UTC(),
	}
	if upd.IsPublic != nil {
		set["is_public"] = *upd.IsPublic
	}
	return s.updateOwned(ctx, creatorID, quizID, bson.M{"$set": set})
}

// SetVisibility sets is_public explicitly. Repeating the call is a no-op.
func (s *Store) SetVisibility(ctx context.Context, creatorID, quizID primitive.ObjectID, public bool) error {
	return s.updateOwned(ctx, creatorID, quizID, bson.M{"$set": bson.M{
		"is_public":  public,
		"updated_at": time.Now().UTC(),
	}})
}

// ToggleVisibility flips is_public atomically and returns the new value.
func (s *Store) ToggleVisibility(ctx context.Context, creatorID, quizID primitive.ObjectID) (bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_public", Value: bson.D{{Key: "$not", Value: bson.A{"$is_public"}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}

	var q models.Quiz
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": quizID, "creator_id": creatorID},
		pipeline,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"is_public": 1}),
	).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle visibility: %w", err)
	}
	return q.IsPublic, nil
}

// Delete removes the quiz identified by (creatorID, quizID).
func (s *Store) Delete(ctx context.Context, creatorID, quizID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": quizID, "creator_id": creatorID})
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) updateOwned(ctx context.Context, creatorID, quizID primitive.ObjectID, update bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": quizID, "creator_id": creatorID}, update)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
