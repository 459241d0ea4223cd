package services

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/models"
)

type AnalyticsEndpoints struct {
	metrics *MetricsService
}

func NewAnalyticsEndpoints(metrics *MetricsService) *AnalyticsEndpoints {
	return &AnalyticsEndpoints{metrics: metrics}
}

func (e *AnalyticsEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/dashboard", e.DashboardHandler)
		r.Get("/recruitment-funnel", e.FunnelHandler)
		r.Get("/time-to-hire", e.TimeToHireHandler)
		r.Get("/source-effectiveness", e.SourceEffectivenessHandler)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin, models.RoleManager))
			r.Get("/export", e.ExportHandler)
		})
	})
}

func (e *AnalyticsEndpoints) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := e.metrics.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (e *AnalyticsEndpoints) FunnelHandler(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, e.metrics.Funnel)
}

func (e *AnalyticsEndpoints) TimeToHireHandler(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, e.metrics.TimeToHire)
}

func (e *AnalyticsEndpoints) SourceEffectivenessHandler(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, e.metrics.SourceEffectiveness)
}

func (e *AnalyticsEndpoints) ExportHandler(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, e.metrics.Export)
}

// serveReport reads the optional date_from/date_to window and renders the
// report built for it.
func serveReport[T any](w http.ResponseWriter, r *http.Request, build func(ctx context.Context, from, to *time.Time) (T, error)) {
	from, err := queryTime(r, "date_from")
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := queryTime(r, "date_to")
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := build(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
