package system

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router wires the four API routes and the single-page app fallback.
func (s *System) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	if s.config.Meta.TrustProxy {
		// X-Forwarded-For / X-Real-IP are client supplied unless a proxy rewrites them
		router.Use(middleware.RealIP)
	}
	router.Use(middleware.GetHead)
	router.Use(s.RequestLogger)
	router.Use(s.metrics.Middleware)
	router.Use(s.Recoverer)

	// any origin, no credentials
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get(APIPrefix+"/health", s.HealthHandler)
	router.Get(APIPrefix+"/services", s.ServicesHandler)
	router.Post(APIPrefix+"/contact", s.ContactHandler)
	router.Get(APIPrefix+"/admin/contacts", s.AdminContactsHandler)

	router.NotFound(s.SPAHandler)
	router.MethodNotAllowed(s.SPAHandler)

	return router
}
