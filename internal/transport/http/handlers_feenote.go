package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"certitrack/internal/feenote"
)

type createFeeNoteRequest struct {
	DossierID    string  `json:"dossierId"`
	Gestion      float64 `json:"gestion"`
	Inspection   float64 `json:"inspection"`
	Analyses     float64 `json:"analyses"`
	Surveillance float64 `json:"surveillance"`
	Responsable  string  `json:"responsable"`
}

func (h *Handler) handleCreateFeeNote(w http.ResponseWriter, r *http.Request) {
	var req createFeeNoteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := h.feenotes.Create(r.Context(), feenote.CreateInput{
		DossierID: req.DossierID,
		Components: feenote.Components{
			Management:   req.Gestion,
			Inspection:   req.Inspection,
			Analyses:     req.Analyses,
			Surveillance: req.Surveillance,
		},
		Responsible: req.Responsable,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

type updateFeeNoteRequest struct {
	Composantes *feenote.Components `json:"composantes"`
	Status      *string             `json:"status"`
}

func (h *Handler) handleUpdateFeeNote(w http.ResponseWriter, r *http.Request) {
	var req updateFeeNoteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := feenote.Patch{Components: req.Composantes}
	if req.Status != nil {
		status := feenote.Status(*req.Status)
		patch.Status = &status
	}
	n, err := h.feenotes.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) handleMarkFeeNotePaid(w http.ResponseWriter, r *http.Request) {
	n, err := h.feenotes.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) handleListFeeNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.dossiers.Exists(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	notes, err := h.feenotes.ListByDossier(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
