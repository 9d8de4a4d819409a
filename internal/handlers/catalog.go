package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/tourfront/internal/countdown"
	"github.com/nkiryanov/tourfront/internal/handlers/middleware"
	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/imagepolicy"
	"github.com/nkiryanov/tourfront/internal/models"
)

type CatalogHandler struct {
	images    *imagepolicy.Policy
	loginPath string
	now       func() time.Time
}

func NewCatalog(images *imagepolicy.Policy, loginPath string) *CatalogHandler {
	return &CatalogHandler{images: images, loginPath: loginPath, now: time.Now}
}

func (h *CatalogHandler) Handler() http.Handler {
	withAuth := middleware.RequireAuth(h.loginPath)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tours", h.listTours)
	mux.HandleFunc("GET /tours/featured", h.featuredTours)
	mux.HandleFunc("GET /tours/{slug}", h.tour)
	mux.HandleFunc("GET /tours/{slug}/reviews", h.reviews)
	mux.Handle("POST /tours/{slug}/reviews", withAuth(http.HandlerFunc(h.createReview)))
	mux.HandleFunc("GET /destinations", h.listDestinations)
	mux.HandleFunc("GET /destinations/featured", h.featuredDestinations)
	mux.HandleFunc("GET /destinations/{slug}", h.destination)

	return mux
}

type TourResponse struct {
	models.Tour
	EffectivePrice decimal.Decimal      `json:"effective_price"`
	OfferRemaining *countdown.Breakdown `json:"offer_remaining,omitempty"`
}

func (h *CatalogHandler) tourResponse(t models.Tour) TourResponse {
	res := TourResponse{Tour: h.images.Tour(t), EffectivePrice: t.EffectivePrice()}
	if t.OfferEndsAt != nil {
		left := countdown.Remaining(h.now(), *t.OfferEndsAt)
		res.OfferRemaining = &left
	}
	return res
}

func (h *CatalogHandler) listTours(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.TourFilter{
		Destination: q.Get("destination"),
		Category:    q.Get("category"),
		Search:      q.Get("search"),
		Ordering:    q.Get("ordering"),
		Page:        pageParam(r),
	}
	for param, target := range map[string]**decimal.Decimal{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			render.ServiceError(w, "Invalid "+param, http.StatusBadRequest)
			return
		}
		*target = &d
	}

	page, err := v.API.ListTours(r.Context(), filter)
	if err != nil {
		render.BackendError(w, err, "Page not found", "/tours")
		return
	}

	res := models.Page[TourResponse]{Count: page.Count, Next: page.Next, Previous: page.Previous, Results: make([]TourResponse, 0, len(page.Results))}
	for _, t := range page.Results {
		res.Results = append(res.Results, h.tourResponse(t))
	}
	render.JSON(w, res)
}

func (h *CatalogHandler) featuredTours(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	tours, err := v.API.FeaturedTours(r.Context())
	if err != nil {
		render.BackendError(w, err, "Not found", "/tours")
		return
	}

	res := make([]TourResponse, 0, len(tours))
	for _, t := range tours {
		res = append(res, h.tourResponse(t))
	}
	render.JSON(w, res)
}

func (h *CatalogHandler) tour(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	t, err := v.API.GetTour(r.Context(), r.PathValue("slug"))
	if err != nil {
		render.BackendError(w, err, "Tour not found", "/tours")
		return
	}
	render.JSON(w, h.tourResponse(t))
}

func (h *CatalogHandler) reviews(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	page, err := v.API.TourReviews(r.Context(), r.PathValue("slug"), pageParam(r))
	if err != nil {
		render.BackendError(w, err, "Tour not found", "/tours")
		return
	}
	render.JSON(w, page)
}

func (h *CatalogHandler) createReview(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[models.ReviewRequest](w, r)
	if err != nil {
		return
	}

	t, err := v.API.GetTour(r.Context(), r.PathValue("slug"))
	if err != nil {
		render.BackendError(w, err, "Tour not found", "/tours")
		return
	}
	data.Tour = t.ID

	if !begin(w, v, "review") {
		return
	}
	review, err := v.API.CreateReview(r.Context(), data)
	v.Forms.Finish("review", err)
	if err != nil {
		render.BackendError(w, err, "Tour not found", "/tours")
		return
	}
	render.JSONStatus(w, review, http.StatusCreated)
}

func (h *CatalogHandler) listDestinations(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	page, err := v.API.ListDestinations(r.Context(), pageParam(r))
	if err != nil {
		render.BackendError(w, err, "Page not found", "/destinations")
		return
	}
	page.Results = h.images.Destinations(page.Results)
	render.JSON(w, page)
}

func (h *CatalogHandler) featuredDestinations(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	ds, err := v.API.FeaturedDestinations(r.Context())
	if err != nil {
		render.BackendError(w, err, "Not found", "/destinations")
		return
	}
	render.JSON(w, h.images.Destinations(ds))
}

func (h *CatalogHandler) destination(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	d, err := v.API.GetDestination(r.Context(), r.PathValue("slug"))
	if err != nil {
		render.BackendError(w, err, "Destination not found", "/destinations")
		return
	}
	render.JSON(w, h.images.Destination(d))
}
