package api

import (
	"context"
	"net/url"

	"github.com/nkiryanov/tourfront/internal/models"
)

func (a *API) ListTours(ctx context.Context, f models.TourFilter) (models.Page[models.Tour], error) {
	return get[models.Page[models.Tour]](ctx, a, "tours/", f.Query())
}

func (a *API) FeaturedTours(ctx context.Context) ([]models.Tour, error) {
	return get[[]models.Tour](ctx, a, "tours/featured/", nil)
}

func (a *API) GetTour(ctx context.Context, slug string) (models.Tour, error) {
	return get[models.Tour](ctx, a, "tours/"+url.PathEscape(slug)+"/", nil)
}

func (a *API) TourReviews(ctx context.Context, slug string, page int) (models.Page[models.Review], error) {
	return get[models.Page[models.Review]](ctx, a, "tours/"+url.PathEscape(slug)+"/reviews/", pageQuery(nil, page))
}

func (a *API) ListDestinations(ctx context.Context, page int) (models.Page[models.Destination], error) {
	return get[models.Page[models.Destination]](ctx, a, "destinations/", pageQuery(nil, page))
}

func (a *API) FeaturedDestinations(ctx context.Context) ([]models.Destination, error) {
	return get[[]models.Destination](ctx, a, "destinations/featured/", nil)
}

func (a *API) GetDestination(ctx context.Context, slug string) (models.Destination, error) {
	return get[models.Destination](ctx, a, "destinations/"+url.PathEscape(slug)+"/", nil)
}

func (a *API) CreateReview(ctx context.Context, req models.ReviewRequest) (models.Review, error) {
	return post[models.Review](ctx, a, "reviews/", req)
}
