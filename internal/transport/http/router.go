// Package httptransport is the thin HTTP layer. It delegates to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certitrack/internal/certificate"
	"certitrack/internal/document"
	"certitrack/internal/dossier"
	"certitrack/internal/feenote"
	"certitrack/internal/inspection"
	"certitrack/internal/notification"
	"certitrack/internal/platform/metrics"
	"certitrack/internal/platform/middleware"
	"certitrack/internal/stats"
)

// Handler bundles the domain services behind the HTTP surface.
type Handler struct {
	logger        *slog.Logger
	dossiers      *dossier.Service
	documents     *document.Service
	inspections   *inspection.Service
	certificates  *certificate.Service
	feenotes      *feenote.Service
	notifications *notification.Service
	stats         *stats.Service
}

func NewHandler(
	logger *slog.Logger,
	dossiers *dossier.Service,
	documents *document.Service,
	inspections *inspection.Service,
	certificates *certificate.Service,
	feenotes *feenote.Service,
	notifications *notification.Service,
	statsSvc *stats.Service,
) *Handler {
	return &Handler{
		logger:        logger,
		dossiers:      dossiers,
		documents:     documents,
		inspections:   inspections,
		certificates:  certificates,
		feenotes:      feenotes,
		notifications: notifications,
		stats:         statsSvc,
	}
}

// NewRouter wires all public endpoints behind the platform middleware chain.
// The request timeout here is the only deadline in the system; core services
// carry none.
func NewRouter(h *Handler, logger *slog.Logger, m *metrics.Metrics, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(m))

	r.Route("/dossiers", func(r chi.Router) {
		r.Post("/", h.handleCreateDossier)
		r.Get("/", h.handleListDossiers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetDossier)
			r.Patch("/", h.handleUpdateDossier)
			r.Delete("/", h.handleDeleteDossier)
			r.Get("/historique", h.handleDossierHistory)
			r.Get("/completude", h.handleDossierCompleteness)
			r.Get("/export", h.handleDossierExport)
			r.Get("/documents", h.handleListDocuments)
			r.Get("/inspections", h.handleListInspections)
			r.Get("/certificats", h.handleListCertificates)
			r.Get("/notes-frais", h.handleListFeeNotes)
		})
	})

	r.Post("/documents", h.handleAddDocument)
	r.Patch("/documents/{id}", h.handleUpdateDocument)
	r.Delete("/documents/{id}", h.handleRemoveDocument)

	r.Post("/inspections", h.handleScheduleInspection)
	r.Post("/inspections/{id}/resultat", h.handleRecordInspectionResult)

	r.Post("/certificats", h.handleIssueCertificate)
	r.Post("/certificats/{id}/statut", h.handleUpdateCertificateStatus)

	r.Post("/notes-frais", h.handleCreateFeeNote)
	r.Patch("/notes-frais/{id}", h.handleUpdateFeeNote)
	r.Post("/notes-frais/{id}/acquitter", h.handleMarkFeeNotePaid)

	r.Get("/notifications", h.handleListNotifications)
	r.Get("/notifications/non-lues", h.handleUnreadCount)
	r.Post("/notifications/{id}/lue", h.handleMarkNotificationRead)

	r.Get("/statistiques", h.handleStatistics)
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
