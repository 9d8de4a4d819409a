package handlers

import (
	"net/http"

	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/models"
)

type ContactHandler struct{}

func NewContact() *ContactHandler {
	return &ContactHandler{}
}

func (h *ContactHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /faqs", h.faqs)
	mux.HandleFunc("GET /offices", h.offices)
	mux.HandleFunc("POST /contact", h.contact)
	mux.HandleFunc("POST /newsletter/subscribe", h.subscribe)
	mux.HandleFunc("GET /newsletter/confirm/{token}", h.confirm)
	mux.HandleFunc("GET /newsletter/unsubscribe/{token}", h.unsubscribe)

	return mux
}

func (h *ContactHandler) faqs(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	faqs, err := v.API.ListFAQs(r.Context())
	if err != nil {
		render.BackendError(w, err, "Not found", "/contact")
		return
	}
	render.JSON(w, faqs)
}

func (h *ContactHandler) offices(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	offices, err := v.API.ListOffices(r.Context())
	if err != nil {
		render.BackendError(w, err, "Not found", "/contact")
		return
	}
	render.JSON(w, offices)
}

func (h *ContactHandler) contact(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[models.ContactMessage](w, r)
	if err != nil {
		return
	}

	if !begin(w, v, "contact") {
		return
	}
	err = v.API.SendContactMessage(r.Context(), data)
	v.Forms.Finish("contact", err)
	if err != nil {
		render.BackendError(w, err, "Not found", "/contact")
		return
	}
	render.JSON(w, messageResponse{Message: "Thank you! Your message has been sent."})
}

func (h *ContactHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[models.NewsletterSubscribe](w, r)
	if err != nil {
		return
	}

	if !begin(w, v, "newsletter") {
		return
	}
	st, err := v.API.SubscribeNewsletter(r.Context(), data)
	v.Forms.Finish("newsletter", err)
	if err != nil {
		render.BackendError(w, err, "Not found", "/")
		return
	}
	render.JSON(w, st)
}

func (h *ContactHandler) confirm(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	st, _ := v.API.ConfirmNewsletter(r.Context(), r.PathValue("token"))
	renderNewsletterStatus(w, st)
}

func (h *ContactHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	st, _ := v.API.UnsubscribeNewsletter(r.Context(), r.PathValue("token"))
	renderNewsletterStatus(w, st)
}

// Every outcome is a page state; only error means we could not find out
func renderNewsletterStatus(w http.ResponseWriter, st models.NewsletterStatus) {
	if st.Status == models.NewsletterError {
		if st.Message == "" {
			st.Message = "Something went wrong. Please try again later."
		}
		render.JSONStatus(w, st, http.StatusBadGateway)
		return
	}
	render.JSON(w, st)
}
