package handlers

import (
	"net/http"

	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/imagepolicy"
	"github.com/nkiryanov/tourfront/internal/models"
)

type BlogHandler struct {
	images *imagepolicy.Policy
}

func NewBlog(images *imagepolicy.Policy) *BlogHandler {
	return &BlogHandler{images: images}
}

func (h *BlogHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /blog/posts", h.listPosts)
	mux.HandleFunc("GET /blog/posts/{slug}", h.post)
	mux.HandleFunc("GET /blog/categories", h.categories)
	mux.HandleFunc("GET /blog/tags", h.tags)

	return mux
}

func (h *BlogHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := v.API.ListPosts(r.Context(), models.PostFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
		Page:     pageParam(r),
	})
	if err != nil {
		render.BackendError(w, err, "Page not found", "/blog")
		return
	}
	page.Results = h.images.Posts(page.Results)
	render.JSON(w, page)
}

func (h *BlogHandler) post(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	post, err := v.API.GetPost(r.Context(), r.PathValue("slug"))
	if err != nil {
		render.BackendError(w, err, "Post not found", "/blog")
		return
	}
	render.JSON(w, h.images.Post(post))
}

func (h *BlogHandler) categories(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	cs, err := v.API.ListCategories(r.Context())
	if err != nil {
		render.BackendError(w, err, "Not found", "/blog")
		return
	}
	render.JSON(w, cs)
}

func (h *BlogHandler) tags(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	tags, err := v.API.ListTags(r.Context())
	if err != nil {
		render.BackendError(w, err, "Not found", "/blog")
		return
	}
	render.JSON(w, tags)
}
