package quizzes

import (
	"errors"
	"net/http"

	"github.com/dalemusser/quizhub/internal/app/policy/ownerpolicy"
	quizstore "github.com/dalemusser/quizhub/internal/app/store/quizzes"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/app/system/timeouts"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
	"github.com/dalemusser/quizhub/internal/domain/models"
)

// loadOwnedQuiz fetches {qid} and checks the signed-in user created it.
// ok is false when a response was already written.
func (h *Handler) loadOwnedQuiz(w http.ResponseWriter, r *http.Request) (*models.Quiz, bool) {
	ownerID, _ := ownerpolicy.ParamID(r, "id")
	listURL := "/users/" + ownerID.Hex() + "/quizzes"

	quizID, ok := ownerpolicy.ParamID(r, "qid")
	if !ok {
		h.ErrLog.RenderNotFound(w, r, "Quiz not found.", listURL)
		return nil, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load quiz")
	defer cancel()

	q, err := h.Quizzes.GetByID(ctx, quizID)
	if errors.Is(err, quizstore.ErrNotFound) {
		h.ErrLog.RenderNotFound(w, r, "Quiz not found.", listURL)
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load quiz failed", err, "We could not load this quiz.", listURL)
		return nil, false
	}

	u, _ := auth.CurrentUser(r)
	if !ownerpolicy.Owns(u, q.CreatorID) {
		h.ErrLog.RenderForbidden(w, r)
		return nil, false
	}
	return q, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/{id}/quizzes/{qid}                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeQuiz(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadOwnedQuiz(w, r)
	if !ok {
		return
	}
	q.SortQuestions()
	h.Views.Render(w, r, "user_quiz", quizData{
		BaseVM:  viewdata.NewBaseVM(r, q.Title),
		OwnerID: q.CreatorID.Hex(),
		Quiz:    toView(q),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/{id}/quizzes/{qid}/edit                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeEdit renders the edit form with questions in ascending ID order.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadOwnedQuiz(w, r)
	if !ok {
		return
	}
	q.SortQuestions()
	h.Views.Render(w, r, "user_quiz_edit", quizData{
		BaseVM:  viewdata.NewBaseVM(r, "Edit "+q.Title),
		OwnerID: q.CreatorID.Hex(),
		Quiz:    toView(q),
	})
}
