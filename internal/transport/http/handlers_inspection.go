package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"certitrack/internal/inspection"
)

type scheduleInspectionRequest struct {
	DossierID      string   `json:"dossierId"`
	Inspecteurs    []string `json:"inspecteurs"`
	Lieu           string   `json:"lieu"`
	DateInspection string   `json:"dateInspection"`
	Responsable    string   `json:"responsable"`
}

func (h *Handler) handleScheduleInspection(w http.ResponseWriter, r *http.Request) {
	var req scheduleInspectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	date, err := parseDate(req.DateInspection)
	if err != nil {
		writeError(w, err)
		return
	}
	i, err := h.inspections.Schedule(r.Context(), inspection.ScheduleInput{
		DossierID:   req.DossierID,
		Inspectors:  req.Inspecteurs,
		Location:    req.Lieu,
		Date:        date,
		Responsible: req.Responsable,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, i)
}

type recordResultRequest struct {
	Resultat    string `json:"resultat"`
	Notes       string `json:"notes"`
	Responsable string `json:"responsable"`
}

func (h *Handler) handleRecordInspectionResult(w http.ResponseWriter, r *http.Request) {
	var req recordResultRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	i, err := h.inspections.RecordResult(r.Context(), chi.URLParam(r, "id"),
		inspection.Result(req.Resultat), req.Notes, req.Responsable)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *Handler) handleListInspections(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.dossiers.Exists(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	inspections, err := h.inspections.ListByDossier(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspections)
}
