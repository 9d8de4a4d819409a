package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/nkiryanov/tourfront/internal/models"
)

func (a *API) ListBookings(ctx context.Context, page int) (models.Page[models.Booking], error) {
	return get[models.Page[models.Booking]](ctx, a, "bookings/", pageQuery(nil, page))
}

func (a *API) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	return get[models.Booking](ctx, a, bookingPath(id), nil)
}

func (a *API) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	return post[models.Booking](ctx, a, "bookings/", req)
}

func (a *API) CancelBooking(ctx context.Context, id int64) (models.Booking, error) {
	return post[models.Booking](ctx, a, bookingPath(id)+"cancel/", nil)
}

func (a *API) ListWishlist(ctx context.Context) ([]models.WishlistItem, error) {
	return get[[]models.WishlistItem](ctx, a, "wishlist/", nil)
}

func (a *API) AddToWishlist(ctx context.Context, tourID int64) (models.WishlistItem, error) {
	return post[models.WishlistItem](ctx, a, "wishlist/", map[string]int64{"tour": tourID})
}

func (a *API) RemoveFromWishlist(ctx context.Context, id int64) error {
	return a.r.Request(ctx, http.MethodDelete, "wishlist/"+strconv.FormatInt(id, 10)+"/", nil, nil, nil)
}

func bookingPath(id int64) string {
	return "bookings/" + strconv.FormatInt(id, 10) + "/"
}
