package quizzes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/quizhub/internal/app/features/quizzes/quizform"
	"github.com/dalemusser/quizhub/internal/app/policy/ownerpolicy"
	quizstore "github.com/dalemusser/quizhub/internal/app/store/quizzes"
	"github.com/dalemusser/quizhub/internal/app/system/inputval"
	"github.com/dalemusser/quizhub/internal/app/system/navigation"
	"github.com/dalemusser/quizhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type quizMeta struct {
	Title    string `validate:"required,max=200" label:"Title"`
	Category string `validate:"max=100" label:"Category"`
	Image    string `validate:"omitempty,url,max=2048" label:"Image"`
}

// writeTarget parses {id} and {qid} for owner-scoped writes.
func (h *Handler) writeTarget(w http.ResponseWriter, r *http.Request) (ownerID, quizID primitive.ObjectID, ok bool) {
	ownerID, _ = ownerpolicy.ParamID(r, "id")
	quizID, ok = ownerpolicy.ParamID(r, "qid")
	if !ok {
		h.ErrLog.RenderNotFound(w, r, "Quiz not found.", "/users/"+ownerID.Hex()+"/quizzes")
	}
	return ownerID, quizID, ok
}

func quizURL(ownerID, quizID primitive.ObjectID) string {
	return fmt.Sprintf("/users/%s/quizzes/%s", ownerID.Hex(), quizID.Hex())
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /users/{id}/quizzes/{qid}/edit – visibility                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleVisibility sets visibility when the request names one and flips it
// otherwise, then returns to the referring page.
func (h *Handler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	ownerID, quizID, ok := h.writeTarget(w, r)
	if !ok {
		return
	}
	back := quizURL(ownerID, quizID) + "/edit"

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse visibility form failed", err, "Invalid form data.", back)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update visibility")
	defer cancel()

	var err error
	if raw, present := r.Form["visibility"]; present && len(raw) > 0 {
		public, valid := quizform.ParseVisibility(raw[0])
		if !valid {
			h.ErrLog.LogBadRequest(w, r, "bad visibility value", fmt.Errorf("visibility=%q", raw[0]), "Visibility must be public or private.", back)
			return
		}
		err = h.Quizzes.SetVisibility(ctx, ownerID, quizID, public)
	} else {
		_, err = h.Quizzes.ToggleVisibility(ctx, ownerID, quizID)
	}

	if errors.Is(err, quizstore.ErrNotFound) {
		h.ErrLog.RenderNotFound(w, r, "Quiz not found.", "/users/"+ownerID.Hex()+"/quizzes")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update visibility failed", err, "We could not change visibility.", back)
		return
	}

	http.Redirect(w, r, navigation.Referer(r, back), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /users/{id}/quizzes/{qid} – full quiz edit                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, quizID, ok := h.writeTarget(w, r)
	if !ok {
		return
	}
	back := quizURL(ownerID, quizID)

	form, err := quizform.Parse(r)
	if err != nil {
		var fe *quizform.FieldError
		if errors.As(err, &fe) {
			h.ErrLog.LogBadRequest(w, r, "quiz form rejected", err, "The quiz could not be saved: "+fe.Reason+".", back+"/edit")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "quiz form unreadable", err, "Invalid quiz data.", back+"/edit")
		return
	}

	if res := inputval.Validate(quizMeta{Title: form.Title, Category: form.Category, Image: form.Image}); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "quiz metadata invalid", fmt.Errorf("%s", res.First()), res.First(), back+"/edit")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update quiz")
	defer cancel()

	err = h.Quizzes.Update(ctx, ownerID, quizID, quizstore.Update{
		Title:       form.Title,
		Description: form.Description,
		Image:       form.Image,
		Category:    form.Category,
		IsPublic:    form.Visibility,
		Questions:   form.Questions,
	})
	if errors.Is(err, quizstore.ErrNotFound) {
		h.ErrLog.RenderNotFound(w, r, "Quiz not found.", "/users/"+ownerID.Hex()+"/quizzes")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update quiz failed", err, "We could not save the quiz.", back+"/edit")
		return
	}

	h.Log.Info("quiz updated",
		zap.String("quiz_id", quizID.Hex()),
		zap.Int("questions", len(form.Questions)))
	http.Redirect(w, r, navigation.Referer(r, back), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /users/{id}/quizzes/{qid}/delete                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, quizID, ok := h.writeTarget(w, r)
	if !ok {
		return
	}
	listURL := "/users/" + ownerID.Hex() + "/quizzes"

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete quiz")
	defer cancel()

	err := h.Quizzes.Delete(ctx, ownerID, quizID)
	if errors.Is(err, quizstore.ErrNotFound) {
		h.ErrLog.RenderNotFound(w, r, "Quiz not found.", listURL)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete quiz failed", err, "We could not delete the quiz.", quizURL(ownerID, quizID))
		return
	}

	h.Log.Info("quiz deleted", zap.String("quiz_id", quizID.Hex()))
	http.Redirect(w, r, listURL, http.StatusSeeOther)
}
