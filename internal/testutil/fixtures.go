package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/quizhub/internal/app/system/authutil"
	"github.com/dalemusser/quizhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls on the same request accumulate parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user whose password is "password".
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword("password")
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateQuiz inserts a private quiz owned by creatorID with two questions.
func (f *Fixtures) CreateQuiz(ctx context.Context, creatorID primitive.ObjectID, title string) models.Quiz {
	f.t.Helper()

	now := time.Now().UTC()
	q := models.Quiz{
		ID:        primitive.NewObjectID(),
		CreatorID: creatorID,
		Title:     title,
		Questions: SampleQuestions(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("quizzes").InsertOne(ctx, q); err != nil {
		f.t.Fatalf("failed to create test quiz: %v", err)
	}
	return q
}

// SampleQuestions returns two questions stored out of ID order.
func SampleQuestions() []models.Question {
	return []models.Question{
		{ID: 2, Text: "Second", Answers: []models.Answer{
			{Index: 0, Text: "yes", IsCorrect: true},
			{Index: 1, Text: "no"},
		}},
		{ID: 1, Text: "First", Answers: []models.Answer{
			{Index: 0, Text: "a"},
			{Index: 1, Text: "b", IsCorrect: true},
		}},
	}
}
