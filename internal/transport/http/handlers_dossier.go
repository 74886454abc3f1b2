package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"certitrack/internal/dossier"
	"certitrack/internal/platform/middleware"
)

type createDossierRequest struct {
	OperateurNom         string   `json:"operateurNom"`
	PromoteurNom         string   `json:"promoteurNom"`
	Telephone            string   `json:"telephone"`
	TypeProduit          string   `json:"typeProduit"`
	DateTransmission     string   `json:"dateTransmission"`
	Delai                int      `json:"delai"`
	ParametresEvaluation []string `json:"parametresEvaluation"`
	Responsable          string   `json:"responsable"`
}

func (req createDossierRequest) toInput() (dossier.CreateInput, error) {
	transmission, err := parseDate(req.DateTransmission)
	if err != nil {
		return dossier.CreateInput{}, err
	}
	return dossier.CreateInput{
		OperatorName:     req.OperateurNom,
		PromoterName:     req.PromoteurNom,
		Phone:            req.Telephone,
		ProductType:      req.TypeProduit,
		TransmissionDate: transmission,
		DeadlineDays:     req.Delai,
		EvaluationParams: req.ParametresEvaluation,
		Responsible:      req.Responsable,
	}, nil
}

// handleCreateDossier registers a new case. With ?async=1 the durable write
// happens in the background and the optimistic dossier is returned with 202.
func (h *Handler) handleCreateDossier(w http.ResponseWriter, r *http.Request) {
	var req createDossierRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("async") == "1" {
		d, done := h.dossiers.CreateAsync(r.Context(), in)
		select {
		case err, ok := <-done:
			// An immediate value is a validation failure; a closed channel
			// means the background write already settled cleanly.
			if ok && err != nil {
				writeError(w, err)
				return
			}
		default:
		}
		writeJSON(w, http.StatusAccepted, d)
		return
	}

	d, err := h.dossiers.Create(r.Context(), in)
	if err != nil {
		h.logger.WarnContext(r.Context(), "dossier creation failed",
			"request_id", middleware.GetRequestID(r.Context()), "error", err.Error())
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleListDossiers(w http.ResponseWriter, r *http.Request) {
	list := h.dossiers.List
	if r.URL.Query().Get("historique") == "1" {
		list = h.dossiers.ListWithHistory
	}
	dossiers, err := list(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dossiers)
}

func (h *Handler) handleGetDossier(w http.ResponseWriter, r *http.Request) {
	d, err := h.dossiers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type updateDossierRequest struct {
	OperateurNom         *string   `json:"operateurNom"`
	PromoteurNom         *string   `json:"promoteurNom"`
	Telephone            *string   `json:"telephone"`
	TypeProduit          *string   `json:"typeProduit"`
	Status               *string   `json:"status"`
	DateTransmission     *string   `json:"dateTransmission"`
	Delai                *int      `json:"delai"`
	ParametresEvaluation *[]string `json:"parametresEvaluation"`
	Responsable          string    `json:"responsable"`
	Commentaire          string    `json:"commentaire"`
}

func (h *Handler) handleUpdateDossier(w http.ResponseWriter, r *http.Request) {
	var req updateDossierRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := dossier.Patch{
		OperatorName:     req.OperateurNom,
		PromoterName:     req.PromoteurNom,
		Phone:            req.Telephone,
		ProductType:      req.TypeProduit,
		EvaluationParams: req.ParametresEvaluation,
		Responsible:      req.Responsable,
		Comment:          req.Commentaire,
		DeadlineDays:     req.Delai,
	}
	if req.Status != nil {
		status := dossier.Status(*req.Status)
		patch.Status = &status
	}
	if req.DateTransmission != nil {
		transmission, err := parseDate(*req.DateTransmission)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.TransmissionDate = &transmission
	}

	d, err := h.dossiers.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDeleteDossier(w http.ResponseWriter, r *http.Request) {
	if err := h.dossiers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDossierHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.dossiers.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) handleDossierCompleteness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.dossiers.Exists(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.documents.Completeness(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleDossierExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.stats.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}
