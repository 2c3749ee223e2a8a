package quizzes

import "github.com/go-chi/chi/v5"

// Routes is mounted by the users feature at /users/{id}/quizzes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)

	r.Get("/{qid}", h.ServeQuiz)
	r.Get("/{qid}/edit", h.ServeEdit)
	r.Put("/{qid}/edit", h.HandleVisibility)
	r.Put("/{qid}", h.HandleUpdate)
	r.Delete("/{qid}/delete", h.HandleDelete)

	return r
}
