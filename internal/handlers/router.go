package handlers

import (
	"net/http"
	"strings"

	"ilgi/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(h.logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.StripSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(h.cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(h.cfg.JWTSecret, h.stores.Users))
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/token", h.Token)
			r.Post("/token/refresh", h.RefreshToken)
		})
		r.Get("/users/me", h.Me)
		r.Get("/audit-logs", h.ListAuditLogs)
		for _, res := range h.resources() {
			res.mount(r)
		}
	})
	router.Get("/ws/events", h.WSEvents)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
