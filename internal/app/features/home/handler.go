package home

import (
	"net/http"

	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Views render.Renderer
	Log   *zap.Logger
}

func NewHandler(views render.Renderer, logger *zap.Logger) *Handler {
	return &Handler{
		Views: views,
		Log:   logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome"),
	}

	h.Views.Render(w, r, "home", data)
}
