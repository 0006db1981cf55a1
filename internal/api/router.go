package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds settings for the API router, passed from main so CORS
// and auth come from the environment.
type RouterConfig struct {
	// BackendAPIKey protects /v1 routes when set; empty skips auth (dev mode).
	BackendAPIKey string

	// CorsAllowedOrigins is a comma-separated list; empty means "*" (dev mode).
	CorsAllowedOrigins string

	// OutputDir is served read-only under /media for finished reels.
	OutputDir string
}

func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	allowedOrigins := []string{"*"}
	if cfg.CorsAllowedOrigins != "" {
		origins := strings.Split(cfg.CorsAllowedOrigins, ",")
		trimmed := make([]string, 0, len(origins))
		for _, o := range origins {
			if s := strings.TrimSpace(o); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			allowedOrigins = trimmed
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check — public, no auth required
	r.Get("/health", h.Health)

	// Finished reels are public downloads
	if cfg.OutputDir != "" {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.OutputDir)))
		r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
	}

	// API routes — protected by API key auth when configured
	r.Route("/v1", func(r chi.Router) {
		if cfg.BackendAPIKey != "" {
			r.Use(APIKeyAuth(cfg.BackendAPIKey))
		}

		r.Post("/reels", h.CreateReel)
		r.Get("/reels", h.ListReels)
		r.Get("/reels/{id}", h.GetReel)

		r.Get("/reciters", h.ListReciters)
		r.Get("/surahs", h.ListSurahs)
	})

	return r
}
