package handlers

import (
	"net/http"

	"github.com/nkiryanov/tourfront/internal/handlers/middleware"
	"github.com/nkiryanov/tourfront/internal/imagepolicy"
	"github.com/nkiryanov/tourfront/internal/logger"
	"github.com/nkiryanov/tourfront/internal/visitor"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	LoginPath      string
	WhatsAppNumber string
	InquiryEmail   string
	ImageHosts     []string

	// Mark visitor cookie Secure
	SecureCookies bool
}

func NewRouter(registry *visitor.Registry, cfg RouterConfig, logger logger.Logger) http.Handler {
	images := imagepolicy.New(cfg.ImageHosts)

	api := http.NewServeMux()

	api.Handle("/auth/", http.StripPrefix("/auth", NewAuth(cfg.LoginPath).Handler()))

	catalog := NewCatalog(images, cfg.LoginPath).Handler()
	api.Handle("/tours", catalog)
	api.Handle("/tours/", catalog)
	api.Handle("/destinations", catalog)
	api.Handle("/destinations/", catalog)

	blog := NewBlog(images).Handler()
	api.Handle("/blog/", blog)

	contact := NewContact().Handler()
	api.Handle("/faqs", contact)
	api.Handle("/offices", contact)
	api.Handle("/contact", contact)
	api.Handle("/newsletter/", contact)

	bookings := NewBooking(images, cfg.LoginPath).Handler()
	api.Handle("/bookings", bookings)
	api.Handle("/bookings/", bookings)
	api.Handle("/wishlist", bookings)
	api.Handle("/wishlist/", bookings)

	inquiries := NewInquiry(cfg.WhatsAppNumber, cfg.InquiryEmail, logger).Handler()
	api.Handle("/inquiries", inquiries)
	api.Handle("/inquiries/", inquiries)

	countdown := NewCountdown().Handler()
	api.Handle("/countdown", countdown)
	api.Handle("/countdown/", countdown)

	api.Handle("/preferences/", NewPreferences().Handler())

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", chain(api,
		middleware.VisitorMiddleware(registry, cfg.SecureCookies, logger),
	)))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}
