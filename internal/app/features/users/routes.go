package users

import (
	"net/http"

	"github.com/dalemusser/quizhub/internal/app/policy/ownerpolicy"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /users. quizzes is mounted at /users/{id}/quizzes
// behind the same owner guard as the profile pages.
func Routes(h *Handler, quizzes http.Handler) chi.Router {
	r := chi.NewRouter()

	// PUBLIC
	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Get("/login", h.ServeLogin)
	r.Post("/", h.HandleCreate)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	// OWNER ONLY
	r.Route("/{id}", func(pr chi.Router) {
		pr.Use(ownerpolicy.RequireOwner(h.ErrLog, "id"))

		pr.Get("/", h.ServeProfile)
		pr.Get("/edit", h.ServeEdit)
		pr.Put("/", h.HandleUpdate)
		pr.Delete("/delete", h.HandleDelete)

		if quizzes != nil {
			pr.Mount("/quizzes", quizzes)
		}
	})

	return r
}
