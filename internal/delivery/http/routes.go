package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *HTTPHandler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(corsOrigins))
	r.Use(accessLog(h.l))

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.CreateOrder)
		r.Post("/verify-payment", h.VerifyPayment)
		r.Post("/webhooks/razorpay", h.GatewayWebhook)
		r.Post("/pre-register", h.PreRegister)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/auth/me", h.Me)
			r.Get("/registrations", h.ListRegistrations)
			r.Get("/tickets/{id}", h.GetTicket)
			r.Post("/validate-ticket/{id}", h.ValidateTicket)
		})
	})

	return r
}
