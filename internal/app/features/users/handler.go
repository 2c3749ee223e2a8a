// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	userstore "github.com/dalemusser/quizhub/internal/app/store/users"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/quizhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of userstore.Store the users feature calls.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, in userstore.CreateInput) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd userstore.Update) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Sessions is the slice of auth.SessionManager the users feature calls.
type Sessions interface {
	Login(w http.ResponseWriter, r *http.Request, userID string) error
	Logout(w http.ResponseWriter, r *http.Request) error
}

var _ Sessions = (*auth.SessionManager)(nil)

// LoginThrottle limits login attempts. A nil Throttle disables it.
type LoginThrottle interface {
	Check(r *http.Request, email string) (bool, string)
	Succeeded(email string)
}

// Handler is the dependency container for the users feature:
// registration, login/logout and the owner-only profile pages.
type Handler struct {
	Users    UserStore
	Sessions Sessions
	Views    render.Renderer
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	Throttle LoginThrottle
}

func NewHandler(users UserStore, sessions Sessions, views render.Renderer, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sessions,
		Views:    views,
		ErrLog:   errLog,
		Log:      logger,
	}
}
