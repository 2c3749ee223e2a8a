package ownerpolicy_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	"github.com/dalemusser/quizhub/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestOwns(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name  string
		user  *auth.SessionUser
		owner primitive.ObjectID
		want  bool
	}{
		{"nil user", nil, id, false},
		{"same user", &auth.SessionUser{ID: id.Hex()}, id, true},
		{"other user", &auth.SessionUser{ID: primitive.NewObjectID().Hex()}, id, false},
		{"zero owner", &auth.SessionUser{ID: primitive.NilObjectID.Hex()}, primitive.NilObjectID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ownerpolicy.Owns(tt.user, tt.owner); got != tt.want {
				t.Errorf("Owns: got %v, want %v", got, tt.want)
			}
		})
	}
}

func guarded(views *testutil.Renderer, called *bool) http.Handler {
	errLog := uierrors.NewErrorLogger(zap.NewNop(), views)
	return ownerpolicy.RequireOwner(errLog, "id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireOwner(t *testing.T) {
	owner := testutil.NewUser("Owner", "owner@example.com")
	other := testutil.NewUser("Other", "other@example.com")

	tests := []struct {
		name       string
		user       *testutil.TestUser
		param      string
		html       bool
		wantStatus int
		wantView   string
		wantCalled bool
	}{
		{"owner passes", &owner, owner.ID, true, http.StatusOK, "", true},
		{"anonymous html", nil, owner.ID, true, http.StatusUnauthorized, "user_login", false},
		{"anonymous api", nil, owner.ID, false, http.StatusUnauthorized, "", false},
		{"other user html", &other, owner.ID, true, http.StatusForbidden, "error", false},
		{"other user api", &other, owner.ID, false, http.StatusForbidden, "", false},
		{"malformed id", &owner, "zzz", true, http.StatusNotFound, "error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := &testutil.Renderer{}
			called := false
			h := guarded(views, &called)

			req := testutil.NewRequest(http.MethodGet, "/users/"+tt.param)
			if tt.html {
				req.Header.Set("Accept", "text/html")
			}
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			req = testutil.WithChiURLParam(req, "id", tt.param)

			rec := testutil.NewRecorder()
			h.ServeHTTP(rec, req)

			rec.AssertStatus(t, tt.wantStatus)
			if called != tt.wantCalled {
				t.Errorf("next called: got %v, want %v", called, tt.wantCalled)
			}
			if got := views.Last().Name; got != tt.wantView {
				t.Errorf("view: got %q, want %q", got, tt.wantView)
			}
		})
	}
}
