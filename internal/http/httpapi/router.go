package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"volunteerhub/internal/http/handlers"
	"volunteerhub/internal/infra"
	"volunteerhub/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/roster", func(r chi.Router) {
		r.Get("/in-process", app.RosterInProcess)
		r.Get("/approved", app.RosterApproved)
	})

	r.Route("/v1/volunteers", func(r chi.Router) {
		r.Get("/{contactID}", app.VolunteerDetail)
		r.Post("/reassign", app.Reassign)
	})

	r.Route("/v1/milestones", func(r chi.Router) {
		r.Post("/", app.MilestonesCreate)
		r.Patch("/{recordID}", app.MilestonesUpdate)
	})

	r.Route("/v1/form-responses", func(r chi.Router) {
		r.Post("/", app.FormResponsesCreate)
		r.Patch("/{responseID}", app.FormResponsesUpdate)
	})

	r.Patch("/v1/certifications/{certificationID}", app.CertificationsUpdate)

	r.Post("/v1/records/{category}/{recordID}/documents", app.DocumentsUpload)
	r.Put("/v1/contacts/{contactID}/photo", app.ContactPhotoUpload)

	r.Get("/v1/audit", app.AuditRecent)

	return r
}
