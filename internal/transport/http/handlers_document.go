package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"certitrack/internal/document"
)

type addDocumentRequest struct {
	DossierID   string `json:"dossierId"`
	Type        string `json:"type"`
	Nom         string `json:"nom"`
	URL         string `json:"url"`
	Responsable string `json:"responsable"`
}

func (h *Handler) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	d, err := h.documents.Add(r.Context(), document.AddInput{
		DossierID:   req.DossierID,
		Type:        document.Type(req.Type),
		Name:        req.Nom,
		URL:         req.URL,
		Responsible: req.Responsable,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

type updateDocumentRequest struct {
	Nom         *string `json:"nom"`
	URL         *string `json:"url"`
	Status      *string `json:"status"`
	Commentaire string  `json:"commentaire"`
	Responsable string  `json:"responsable"`
}

func (h *Handler) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := document.Patch{
		Name:        req.Nom,
		URL:         req.URL,
		Comment:     req.Commentaire,
		Responsible: req.Responsable,
	}
	if req.Status != nil {
		status := document.Status(*req.Status)
		patch.Status = &status
	}
	d, err := h.documents.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	responsible := r.URL.Query().Get("responsable")
	if err := h.documents.Remove(r.Context(), chi.URLParam(r, "id"), responsible); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.dossiers.Exists(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	docs, err := h.documents.ListByDossier(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
