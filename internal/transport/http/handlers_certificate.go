package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"certitrack/internal/certificate"
)

type issueCertificateRequest struct {
	DossierID      string `json:"dossierId"`
	Numero         string `json:"numero"`
	DateExpiration string `json:"dateExpiration"`
	Responsable    string `json:"responsable"`
	Commentaire    string `json:"commentaire"`
}

func (h *Handler) handleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	var req issueCertificateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	expires, err := parseDate(req.DateExpiration)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.certificates.Issue(r.Context(), certificate.IssueInput{
		DossierID:   req.DossierID,
		Number:      req.Numero,
		ExpiresAt:   expires,
		Responsible: req.Responsable,
		Comment:     req.Commentaire,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type updateCertificateStatusRequest struct {
	Status      string `json:"status"`
	Responsable string `json:"responsable"`
}

func (h *Handler) handleUpdateCertificateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateCertificateStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.certificates.UpdateStatus(r.Context(), chi.URLParam(r, "id"),
		certificate.Status(req.Status), req.Responsable)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.dossiers.Exists(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	certs, err := h.certificates.ListByDossier(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certs)
}
