package users

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/dalemusser/quizhub/internal/app/system/limits"
)

type registerInput struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=72" label:"Password"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=72" label:"Password"`
}

type updateInput struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"omitempty,max=72" label:"Password"`
}

func isJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

// decodeBody fills dst from a JSON body or from form fields named after
// dst's json tags. Only the three input types above are supported.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxAccountBody)
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return err
		}
		f := r.PostFormValue
		switch in := dst.(type) {
		case *registerInput:
			in.Name, in.Email, in.Password = f("name"), f("email"), f("password")
		case *loginInput:
			in.Email, in.Password = f("email"), f("password")
		case *updateInput:
			in.Name, in.Email, in.Password = f("name"), f("email"), f("password")
		}
	}

	// Passwords are compared byte-for-byte and are never trimmed.
	switch in := dst.(type) {
	case *registerInput:
		in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	case *loginInput:
		in.Email = strings.TrimSpace(in.Email)
	case *updateInput:
		in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	}
	return nil
}
