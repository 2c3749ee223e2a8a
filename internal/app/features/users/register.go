package users

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	userstore "github.com/dalemusser/quizhub/internal/app/store/users"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/app/system/authutil"
	"github.com/dalemusser/quizhub/internal/app/system/inputval"
	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/quizhub/internal/app/system/timeouts"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type newUserData struct {
	viewdata.BaseVM
	Name  string
	Email string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/new                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Views.Render(w, r, "user_new", newUserData{BaseVM: viewdata.NewBaseVM(r, "Register")})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreate registers a user, starts their session, and redirects to
// the new profile.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := decodeBody(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode registration failed", err, "Invalid registration data.", "/users/new")
		return
	}

	if res := inputval.Validate(in); res.HasErrors() {
		h.reRenderNew(w, r, http.StatusBadRequest, in, res.First())
		return
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		h.reRenderNew(w, r, http.StatusBadRequest, in, "Password is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create user")
	defer cancel()

	u, err := h.Users.Create(ctx, userstore.CreateInput{Name: in.Name, Email: in.Email, Password: in.Password})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.reRenderNew(w, r, http.StatusConflict, in, "An account with that email already exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user failed", err, "We could not create your account.", "/users/new")
		return
	}

	if err := h.Sessions.Login(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session after registration failed", err, "Your account was created but we could not sign you in.", "/users/login")
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	http.Redirect(w, r, "/users/"+u.ID.Hex(), http.StatusFound)
}

func (h *Handler) reRenderNew(w http.ResponseWriter, r *http.Request, status int, in registerInput, msg string) {
	if !auth.WantsHTML(r) {
		uierrors.WriteJSONError(w, status, msg)
		return
	}
	vm := viewdata.NewBaseVM(r, "Register")
	vm.Error = msg
	h.Views.Render(render.WithStatus(w, status), r, "user_new", newUserData{
		BaseVM: vm,
		Name:   in.Name,
		Email:  in.Email,
	})
}
