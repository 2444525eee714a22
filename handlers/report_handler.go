package handlers

import (
	"net/http"

	"github.com/agusaisen/recopro/middleware"
	"github.com/agusaisen/recopro/services"
)

type ReportHandler struct {
	reportService    services.ReportService
	dashboardService services.DashboardService
}

func NewReportHandler(reportService services.ReportService, dashboardService services.DashboardService) *ReportHandler {
	return &ReportHandler{reportService: reportService, dashboardService: dashboardService}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Enrollment returns the per-discipline and per-locality enrollment
// breakdown admins export during the games.
func (h *ReportHandler) Enrollment(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.EnrollmentReport(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"reporte": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Roster returns the full member list of one team, the data behind the
// printable lista de buena fe.
func (h *ReportHandler) Roster(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	teamID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	export, err := h.reportService.RosterExport(r.Context(), teamID, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, export, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
