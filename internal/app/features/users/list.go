package users

import (
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	"github.com/dalemusser/quizhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users – JSON directory of users                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList returns {"users": [...]} with password hashes omitted.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		uierrors.WriteJSONError(w, http.StatusInternalServerError, "could not load users")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"users": users})
}
