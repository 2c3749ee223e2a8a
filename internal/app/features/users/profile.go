package users

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	"github.com/dalemusser/quizhub/internal/app/policy/ownerpolicy"
	userstore "github.com/dalemusser/quizhub/internal/app/store/users"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/app/system/authutil"
	"github.com/dalemusser/quizhub/internal/app/system/inputval"
	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/quizhub/internal/app/system/timeouts"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
	"github.com/dalemusser/quizhub/internal/domain/models"
	"go.uber.org/zap"
)

type userView struct {
	ID          string
	Name        string
	Email       string
	MemberSince string
}

func toUserView(u *models.User) userView {
	return userView{
		ID:          u.ID.Hex(),
		Name:        u.Name,
		Email:       u.Email,
		MemberSince: u.CreatedAt.Format("January 2, 2006"),
	}
}

type profileData struct {
	viewdata.BaseVM
	User userView
}

type editData struct {
	viewdata.BaseVM
	User  userView
	Name  string
	Email string
}

// loadUser fetches the {id} user. ok is false when a response was written.
func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	oid, _ := ownerpolicy.ParamID(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, oid)
	if errors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.RenderNotFound(w, r, "User not found.", "/")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "We could not load this profile.", "/")
		return nil, false
	}
	return u, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/{id}                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	h.Views.Render(w, r, "user_page", profileData{
		BaseVM: viewdata.NewBaseVM(r, u.Name),
		User:   toUserView(u),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/{id}/edit                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	h.Views.Render(w, r, "user_edit", editData{
		BaseVM: viewdata.NewBaseVM(r, "Edit profile"),
		User:   toUserView(u),
		Name:   u.Name,
		Email:  u.Email,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /users/{id}                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpdate saves name and email, and the password when one is given.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	oid, _ := ownerpolicy.ParamID(r, "id")
	back := "/users/" + oid.Hex()

	var in updateInput
	if err := decodeBody(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile update failed", err, "Invalid profile data.", back+"/edit")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.reRenderEdit(w, r, http.StatusBadRequest, in, res.First())
		return
	}
	if in.Password != "" {
		if err := authutil.ValidatePassword(in.Password); err != nil {
			h.reRenderEdit(w, r, http.StatusBadRequest, in, "Password must not be blank.")
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update user")
	defer cancel()

	_, err := h.Users.Update(ctx, oid, userstore.Update{Name: in.Name, Email: in.Email, Password: in.Password})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.reRenderEdit(w, r, http.StatusConflict, in, "An account with that email already exists.")
		return
	case errors.Is(err, userstore.ErrNotFound):
		h.ErrLog.RenderNotFound(w, r, "User not found.", "/")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update user failed", err, "We could not save your profile.", back)
		return
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) reRenderEdit(w http.ResponseWriter, r *http.Request, status int, in updateInput, msg string) {
	if !auth.WantsHTML(r) {
		uierrors.WriteJSONError(w, status, msg)
		return
	}
	oid, _ := ownerpolicy.ParamID(r, "id")
	vm := viewdata.NewBaseVM(r, "Edit profile")
	vm.Error = msg
	h.Views.Render(render.WithStatus(w, status), r, "user_edit", editData{
		BaseVM: vm,
		User:   userView{ID: oid.Hex()},
		Name:   in.Name,
		Email:  in.Email,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /users/{id}/delete                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes the account and ends the session. The user's
// quizzes are left in place; their creator ID can never be reissued.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, _ := ownerpolicy.ParamID(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete user")
	defer cancel()

	err := h.Users.Delete(ctx, oid)
	if err != nil && !errors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "We could not delete your account.", "/users/"+oid.Hex())
		return
	}

	if err := h.Sessions.Logout(w, r); err != nil {
		h.Log.Warn("delete user: failed to clear session", zap.Error(err))
	}
	h.Log.Info("user deleted", zap.String("user_id", oid.Hex()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
