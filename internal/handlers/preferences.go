package handlers

import (
	"net/http"

	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/inquiry"
	"github.com/nkiryanov/tourfront/internal/validate"
)

type PreferencesHandler struct{}

func NewPreferences() *PreferencesHandler {
	return &PreferencesHandler{}
}

func (h *PreferencesHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /preferences/language", h.language)
	mux.HandleFunc("PUT /preferences/language", h.setLanguage)
	mux.HandleFunc("GET /preferences/contact", h.contact)
	mux.HandleFunc("DELETE /preferences/contact", h.forgetContact)

	return mux
}

type LanguageResponse struct {
	Language  string   `json:"language"`
	Available []string `json:"available"`
}

func (h *PreferencesHandler) language(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	render.JSON(w, LanguageResponse{Language: v.Preferences.Language(r.Context()), Available: validate.Languages})
}

func (h *PreferencesHandler) setLanguage(w http.ResponseWriter, r *http.Request) {
	type LanguageRequest struct {
		Language string `json:"language" validate:"required,language"`
	}

	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[LanguageRequest](w, r)
	if err != nil {
		return
	}

	if err := v.Preferences.SetLanguage(r.Context(), data.Language); err != nil {
		render.ServiceError(w, "Failed to save language", http.StatusInternalServerError)
		return
	}
	render.JSON(w, LanguageResponse{Language: data.Language, Available: validate.Languages})
}

type ContactResponse struct {
	Contact *inquiry.Contact `json:"contact"`
}

func (h *PreferencesHandler) contact(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	c, ok, err := v.Preferences.Contact(r.Context())
	if err != nil {
		render.ServiceError(w, "Failed to read contact details", http.StatusInternalServerError)
		return
	}
	if !ok {
		render.JSON(w, ContactResponse{})
		return
	}
	render.JSON(w, ContactResponse{Contact: &c})
}

func (h *PreferencesHandler) forgetContact(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	if err := v.Preferences.ForgetContact(r.Context()); err != nil {
		render.ServiceError(w, "Failed to forget contact details", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
