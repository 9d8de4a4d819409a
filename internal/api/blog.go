package api

import (
	"context"
	"net/url"

	"github.com/nkiryanov/tourfront/internal/models"
)

func (a *API) ListPosts(ctx context.Context, f models.PostFilter) (models.Page[models.Post], error) {
	q := url.Values{}
	for key, value := range map[string]string{"category": f.Category, "tag": f.Tag, "search": f.Search} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return get[models.Page[models.Post]](ctx, a, "blog/posts/", pageQuery(q, f.Page))
}

func (a *API) GetPost(ctx context.Context, slug string) (models.Post, error) {
	return get[models.Post](ctx, a, "blog/posts/"+url.PathEscape(slug)+"/", nil)
}

func (a *API) ListCategories(ctx context.Context) ([]models.Category, error) {
	return get[[]models.Category](ctx, a, "blog/categories/", nil)
}

func (a *API) ListTags(ctx context.Context) ([]models.Tag, error) {
	return get[[]models.Tag](ctx, a, "blog/tags/", nil)
}
