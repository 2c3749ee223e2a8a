// Package ownerpolicy is the single ownership rule for user-scoped routes:
// a signed-in user may only act on resources whose owner ID equals their
// own user ID.
//
// RequireOwner enforces the rule for the /users/{id} subtree before any
// data access happens. Handlers that load a quiz call Owns again against
// the quiz's CreatorID.
package ownerpolicy

import (
	"net/http"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owns reports whether u is the owner identified by ownerID.
// A nil user never owns anything.
func Owns(u *auth.SessionUser, ownerID primitive.ObjectID) bool {
	if u == nil || ownerID.IsZero() {
		return false
	}
	return u.ID == ownerID.Hex()
}

// ParamID parses the chi URL parameter as an ObjectID.
func ParamID(r *http.Request, param string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// RequireOwner guards routes whose URL parameter param names the owning
// user. Anonymous requests get 401, other users get 403, and a malformed
// ID gets 404.
func RequireOwner(errLog *uierrors.ErrorLogger, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				errLog.RenderUnauthorized(w, r)
				return
			}
			ownerID, ok := ParamID(r, param)
			if !ok {
				errLog.RenderNotFound(w, r, "User not found.", "/")
				return
			}
			if !Owns(u, ownerID) {
				errLog.RenderForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
