package quizzes

import (
	"net/http"

	"github.com/dalemusser/quizhub/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/quizhub/internal/app/system/timeouts"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/{id}/quizzes                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerpolicy.ParamID(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list quizzes")
	defer cancel()

	quizzes, err := h.Quizzes.ListByCreator(ctx, ownerID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list quizzes failed", err, "We could not load your quizzes.", "/users/"+ownerID.Hex())
		return
	}

	rows := make([]quizRow, 0, len(quizzes))
	for _, q := range quizzes {
		rows = append(rows, toRow(q))
	}

	h.Views.Render(w, r, "user_quizzes", listData{
		BaseVM:  viewdata.NewBaseVM(r, "My quizzes"),
		OwnerID: ownerID.Hex(),
		Quizzes: rows,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/{id}/quizzes/new                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNew renders the quiz builder landing page. Quizzes are created by
// the builder, not by this service.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerpolicy.ParamID(r, "id")
	h.Views.Render(w, r, "new_quiz", newData{
		BaseVM:  viewdata.NewBaseVM(r, "New quiz"),
		OwnerID: ownerID.Hex(),
	})
}
