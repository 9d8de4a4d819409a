package handlers

import (
	"net/http"

	"github.com/nkiryanov/tourfront/internal/handlers/middleware"
	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/imagepolicy"
	"github.com/nkiryanov/tourfront/internal/models"
)

// BookingHandler serves pages of the logged in visitor: bookings and wishlist
type BookingHandler struct {
	images    *imagepolicy.Policy
	loginPath string
}

func NewBooking(images *imagepolicy.Policy, loginPath string) *BookingHandler {
	return &BookingHandler{images: images, loginPath: loginPath}
}

func (h *BookingHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bookings", h.list)
	mux.HandleFunc("POST /bookings", h.create)
	mux.HandleFunc("GET /bookings/{id}", h.get)
	mux.HandleFunc("POST /bookings/{id}/cancel", h.cancel)
	mux.HandleFunc("GET /wishlist", h.wishlist)
	mux.HandleFunc("POST /wishlist", h.addToWishlist)
	mux.HandleFunc("DELETE /wishlist/{id}", h.removeFromWishlist)

	return middleware.RequireAuth(h.loginPath)(mux)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	page, err := v.API.ListBookings(r.Context(), pageParam(r))
	if err != nil {
		render.BackendError(w, err, "Page not found", "/bookings")
		return
	}
	render.JSON(w, page)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[models.BookingRequest](w, r)
	if err != nil {
		return
	}

	if !begin(w, v, "booking") {
		return
	}
	booking, err := v.API.CreateBooking(r.Context(), data)
	v.Forms.Finish("booking", err)
	if err != nil {
		render.BackendError(w, err, "Tour not found", "/tours")
		return
	}
	render.JSONStatus(w, booking, http.StatusCreated)
}

func (h *BookingHandler) get(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	booking, err := v.API.GetBooking(r.Context(), id)
	if err != nil {
		render.BackendError(w, err, "Booking not found", "/bookings")
		return
	}
	render.JSON(w, booking)
}

func (h *BookingHandler) cancel(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	booking, err := v.API.GetBooking(r.Context(), id)
	if err != nil {
		render.BackendError(w, err, "Booking not found", "/bookings")
		return
	}
	if !booking.Cancellable() {
		render.ServiceError(w, "Booking can't be cancelled in status "+booking.Status, http.StatusConflict)
		return
	}

	booking, err = v.API.CancelBooking(r.Context(), id)
	if err != nil {
		render.BackendError(w, err, "Booking not found", "/bookings")
		return
	}
	render.JSON(w, booking)
}

func (h *BookingHandler) wishlist(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	items, err := v.API.ListWishlist(r.Context())
	if err != nil {
		render.BackendError(w, err, "Not found", "/tours")
		return
	}
	for i := range items {
		items[i].Tour = h.images.Tour(items[i].Tour)
	}
	render.JSON(w, items)
}

func (h *BookingHandler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	type AddRequest struct {
		TourID int64 `json:"tour_id" validate:"required,gt=0"`
	}

	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[AddRequest](w, r)
	if err != nil {
		return
	}

	item, err := v.API.AddToWishlist(r.Context(), data.TourID)
	if err != nil {
		render.BackendError(w, err, "Tour not found", "/tours")
		return
	}
	item.Tour = h.images.Tour(item.Tour)
	render.JSONStatus(w, item, http.StatusCreated)
}

func (h *BookingHandler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := v.API.RemoveFromWishlist(r.Context(), id); err != nil {
		render.BackendError(w, err, "Wishlist item not found", "/wishlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
