// internal/app/features/quizzes/handler.go
package quizzes

import (
	"context"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	quizstore "github.com/dalemusser/quizhub/internal/app/store/quizzes"
	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/quizhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// QuizStore is the slice of quizstore.Store the quizzes feature calls.
// Writes are scoped by creator so they cannot touch another user's quiz.
type QuizStore interface {
	ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Quiz, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error)
	Update(ctx context.Context, creatorID, quizID primitive.ObjectID, upd quizstore.Update) error
	Delete(ctx context.Context, creatorID, quizID primitive.ObjectID) error
	SetVisibility(ctx context.Context, creatorID, quizID primitive.ObjectID, public bool) error
	ToggleVisibility(ctx context.Context, creatorID, quizID primitive.ObjectID) (bool, error)
}

// Handler serves /users/{id}/quizzes. It is mounted behind
// ownerpolicy.RequireOwner, so {id} is always the signed-in user.
type Handler struct {
	Quizzes QuizStore
	Views   render.Renderer
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(quizzes QuizStore, views render.Renderer, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Quizzes: quizzes,
		Views:   views,
		ErrLog:  errLog,
		Log:     logger,
	}
}
