package predictionhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// Config tunes the HTTP delivery layer.
type Config struct {
	// AllowedOrigins lists the browser origins allowed to call the API. Empty
	// means same-origin only and no CORS headers are sent.
	AllowedOrigins []string
	// WritesPerSecond and WriteBurst bound prediction writes per participant.
	WritesPerSecond float64
	WriteBurst      int
}

// Register mounts the tournament routes on r.
func Register(r chi.Router, h *Handlers, verifier *TokenVerifier, cfg Config) {
	if cfg.WritesPerSecond <= 0 {
		cfg.WritesPerSecond = 1
	}
	if cfg.WriteBurst <= 0 {
		cfg.WriteBurst = 5
	}
	limiter := NewParticipantRateLimiter(rate.Limit(cfg.WritesPerSecond), cfg.WriteBurst)

	r.Route("/api/tournaments/{tournamentID}", func(r chi.Router) {
		if len(cfg.AllowedOrigins) > 0 {
			// Participants authenticate with a bearer header, never cookies.
			r.Use(cors.New(cors.Options{
				AllowedOrigins: cfg.AllowedOrigins,
				AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "Authorization"},
			}).Handler)
		}
		r.Use(AuthMiddleware(verifier))

		r.With(RateLimitMiddleware(limiter)).Put("/matches/{matchID}/prediction", h.HandleSubmitPrediction)
		r.Get("/matches/{matchID}/prediction", h.HandleGetPrediction)
		r.Get("/matchdays/{matchday}/aggregate", h.HandleGetAggregate)
		r.Get("/matchdays/{matchday}/standings", h.HandleGetStandings)
		r.Get("/matchdays/{matchday}/standings.xlsx", h.HandleExportStandings)
		r.Get("/rankings", h.HandleGetRankings)
		r.Get("/participants/{participantID}/chart.png", h.HandleParticipantChart)

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly)
			r.Post("/matchdays/{matchday}/apply-defaults", h.HandleApplyDefaults)
			r.Post("/matchdays/{matchday}/bonus-match", h.HandleDesignateBonusMatch)
		})
	})
}
