package users

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	userstore "github.com/dalemusser/quizhub/internal/app/store/users"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/app/system/inputval"
	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/quizhub/internal/app/system/timeouts"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// loginData matches the data the error logger passes to "user_login".
type loginData struct {
	viewdata.BaseVM
	Email string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/login                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Views.Render(w, r, "user_login", loginData{BaseVM: viewdata.NewBaseVM(r, "Log in")})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users/login                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeBody(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login failed", err, "Invalid login data.", "/users/login")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.loginFailed(w, r, http.StatusBadRequest, in.Email, res.First())
		return
	}

	if h.Throttle != nil {
		if ok, reason := h.Throttle.Check(r, in.Email); !ok {
			h.Log.Warn("login throttled", zap.String("ip", r.RemoteAddr))
			h.loginFailed(w, r, http.StatusTooManyRequests, in.Email, reason)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "authenticate")
	defer cancel()

	u, err := h.Users.Authenticate(ctx, in.Email, in.Password)
	if errors.Is(err, userstore.ErrInvalidCredentials) {
		h.Log.Info("login failed", zap.String("reason", "invalid credentials"))
		h.loginFailed(w, r, http.StatusUnauthorized, in.Email, "Invalid email or password.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, "We could not sign you in.", "/users/login")
		return
	}

	if err := h.Sessions.Login(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "We could not sign you in.", "/users/login")
		return
	}

	if h.Throttle != nil {
		h.Throttle.Succeeded(in.Email)
	}
	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()))
	http.Redirect(w, r, "/users/"+u.ID.Hex(), http.StatusFound)
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, status int, email, msg string) {
	if !auth.WantsHTML(r) {
		uierrors.WriteJSONError(w, status, msg)
		return
	}
	vm := viewdata.NewBaseVM(r, "Log in")
	vm.Error = msg
	h.Views.Render(render.WithStatus(w, status), r, "user_login", loginData{BaseVM: vm, Email: email})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users/logout                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		h.Log.Warn("logout: failed to clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
