// internal/domain/models/quiz.go
package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quiz is a titled collection of questions owned by one user.
// Questions are embedded; their IDs are unique within the quiz only.
type Quiz struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorID   primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Category    string             `bson:"category" json:"category"`
	IsPublic    bool               `bson:"is_public" json:"is_public"`
	Questions   []Question         `bson:"questions" json:"questions"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Question is one prompt and its answer options.
type Question struct {
	ID      int      `bson:"id" json:"id"`
	Text    string   `bson:"text" json:"text"`
	Answers []Answer `bson:"answers" json:"answers"`
}

// Answer is one option of a question. Index is its key within the question.
type Answer struct {
	Index     int    `bson:"index" json:"index"`
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"is_correct"`
}

// SortQuestions orders questions by ID and each question's answers by Index.
func (q *Quiz) SortQuestions() {
	sort.SliceStable(q.Questions, func(i, j int) bool {
		return q.Questions[i].ID < q.Questions[j].ID
	})
	for i := range q.Questions {
		a := q.Questions[i].Answers
		sort.SliceStable(a, func(x, y int) bool { return a[x].Index < a[y].Index })
	}
}

// CorrectCount returns how many answers of the question are marked correct.
func (q Question) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// Visibility returns "public" or "private" for display.
func (q Quiz) Visibility() string {
	if q.IsPublic {
		return "public"
	}
	return "private"
}
