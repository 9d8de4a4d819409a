package handlers

import (
	"net/http"

	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/inquiry"
	"github.com/nkiryanov/tourfront/internal/logger"
)

type InquiryHandler struct {
	whatsappNumber string
	inquiryEmail   string
	logger         logger.Logger
}

func NewInquiry(whatsappNumber, inquiryEmail string, l logger.Logger) *InquiryHandler {
	return &InquiryHandler{whatsappNumber: whatsappNumber, inquiryEmail: inquiryEmail, logger: l}
}

func (h *InquiryHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /inquiries", h.submit)
	mux.HandleFunc("POST /inquiries/steps/{step}", h.step)

	return mux
}

type InquiryResponse struct {
	inquiry.Links
	Submitted bool `json:"submitted"`
}

func (h *InquiryHandler) submit(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	form, err := render.Bind[inquiry.Form](w, r)
	if err != nil {
		return
	}

	if contact, ok, err := v.Preferences.Contact(r.Context()); err == nil && ok {
		form = form.Prefill(contact)
	}
	if err := form.Validate(); err != nil {
		render.FormError(w, err)
		return
	}

	if !begin(w, v, "inquiry") {
		return
	}

	// Links are the primary channel; backend lead is best effort
	res := InquiryResponse{Links: form.Links(h.whatsappNumber, h.inquiryEmail)}
	if err := v.API.SubmitInquiry(r.Context(), form.Lead()); err != nil {
		h.logger.Warn("Inquiry not stored on backend", "visitor", v.ID, "error", err)
	} else {
		res.Submitted = true
	}
	v.Forms.Finish("inquiry", nil)

	if form.Remember {
		if err := v.Preferences.RememberContact(r.Context(), form.Contact()); err != nil {
			h.logger.Error("Can't remember contact", "visitor", v.ID, "error", err)
		}
	}
	v.Inquiry.Reset()

	render.JSON(w, res)
}

type StepResponse struct {
	Step  string `json:"step"`
	Index int    `json:"index"`
	Last  bool   `json:"last"`
}

// step validates fields of one wizard step and moves the visitor to the next one
func (h *InquiryHandler) step(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	step := r.PathValue("step")
	if _, err := v.Inquiry.Index(step); err != nil {
		render.FormError(w, err)
		return
	}
	form, err := render.Bind[inquiry.Form](w, r)
	if err != nil {
		return
	}

	if err := form.ValidateStep(step); err != nil {
		render.FormError(w, err)
		return
	}

	if err := v.Inquiry.GoTo(step); err != nil {
		render.FormError(w, err)
		return
	}
	next := v.Inquiry.Next()
	i, _ := v.Inquiry.Current()
	render.JSON(w, StepResponse{Step: next, Index: i, Last: v.Inquiry.IsLast()})
}
