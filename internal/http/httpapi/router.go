package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/infra/geoip"
	appmw "server/internal/middleware"
)

// NewRouter builds the full route tree with its middleware chain.
func NewRouter(app *handlers.App, logger zerolog.Logger, geo geoip.CountryResolver) http.Handler {
	cfg := app.Cfg
	auth := appmw.AuthJWT(cfg.JWTSecret)
	optionalAuth := appmw.OptionalAuthJWT(cfg.JWTSecret)
	adminOnly := appmw.RequireRole(string(domain.UserRoleAdmin))

	r := chi.NewRouter()
	r.Use(
		appmw.RequestID,
		appmw.Logger(logger, geo),
		chimiddleware.Recoverer,
		appmw.CORS(cfg.CORSOrigins),
	)

	r.Get("/", app.Root)
	r.Get("/api/healthz", app.Health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(appmw.RateLimit(cfg.AuthRatePerMin, time.Minute))
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
		r.With(auth).Get("/me", app.Me)
		r.Post("/forgot-password", app.ForgotPassword)
		r.Post("/reset-password/{token}", app.ResetPassword)
	})

	r.Route("/api/campaigns", func(r chi.Router) {
		r.With(optionalAuth).Get("/", app.ListCampaigns)
		r.Get("/{id}", app.GetCampaign)
		r.With(auth).Post("/", app.CreateCampaign)
		r.With(auth, adminOnly).Patch("/{id}/status", app.UpdateCampaignStatus)
		r.With(auth).Post("/{id}/join", app.JoinCampaign)
		r.Post("/{id}/share", app.ShareCampaign)
	})

	r.Route("/api/businesses", func(r chi.Router) {
		r.With(optionalAuth).Get("/", app.ListBusinesses)
		r.Get("/{id}", app.GetBusiness)
		r.With(auth).Post("/", app.CreateBusiness)
		r.With(auth, adminOnly).Patch("/{id}/status", app.UpdateBusinessStatus)
	})

	r.Route("/api/donations", func(r chi.Router) {
		r.Get("/campaign/{campaignId}", app.ListDonationsByCampaign)
		r.With(auth).Post("/", app.CreateDonation)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", app.ListCategories)
		r.With(auth, adminOnly).Post("/", app.CreateCategory)
		r.With(auth, adminOnly).Put("/{id}", app.UpdateCategory)
		r.With(auth, adminOnly).Delete("/{id}", app.DeleteCategory)
	})

	return r
}
