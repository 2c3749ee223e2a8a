// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the page header and title.
const SiteName = "QuizHub"

// BaseVM carries the fields every page layout reads.
type BaseVM struct {
	SiteName    string
	Title       string
	IsLoggedIn  bool
	UserID      string
	UserName    string
	CurrentPath string
	CSRFField   template.HTML
	Error       string
}

// NewBaseVM fills a BaseVM from the request's session user and CSRF state.
// Outside the CSRF middleware the token field is empty.
func NewBaseVM(r *http.Request, title string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFField:   csrf.TemplateField(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserID = u.ID
		vm.UserName = u.Name
	}
	return vm
}
