package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"certitrack/internal/audit"
	domainerrors "certitrack/pkg/domain-errors"
	"certitrack/pkg/platform/sentinel"
)

// Service manages per-dossier attachments and the completeness rule. Every
// lifecycle mutation cascades an event into the owning dossier's trail via
// the injected recorder (the case store), which also rejects unknown dossier
// ids.
type Service struct {
	store    Store
	recorder audit.Recorder
	required []Type
	clock    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRequiredTypes overrides the completeness rule. The enumeration is
// configuration the core consumes, not owns.
func WithRequiredTypes(required []Type) ServiceOption {
	return func(s *Service) {
		if len(required) > 0 {
			s.required = required
		}
	}
}

// WithClock pins the service clock for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(store Store, recorder audit.Recorder, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		recorder: recorder,
		required: DefaultRequiredTypes,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add attaches a document to a dossier with status en_attente.
func (s *Service) Add(ctx context.Context, in AddInput) (Document, error) {
	if in.DossierID == "" {
		return Document{}, domainerrors.New(domainerrors.CodeValidation, "dossierId requis")
	}
	if !knownTypes[in.Type] {
		return Document{}, domainerrors.Newf(domainerrors.CodeValidation, "type de document inconnu: %s", in.Type)
	}
	if strings.TrimSpace(in.Name) == "" {
		return Document{}, domainerrors.New(domainerrors.CodeValidation, "nom du document requis")
	}

	d := Document{
		ID:         uuid.NewString(),
		DossierID:  in.DossierID,
		Type:       in.Type,
		Name:       in.Name,
		Status:     StatusPending,
		URL:        in.URL,
		UploadedAt: s.clock(),
	}

	// Record first: it verifies the dossier exists before we write the row.
	if _, err := s.recorder.Record(ctx, audit.Event{
		DossierID:   in.DossierID,
		Action:      "Document ajouté",
		Responsible: in.Responsible,
		Comment:     fmt.Sprintf("%s (%s)", d.Name, d.Type),
	}); err != nil {
		return Document{}, err
	}
	if err := s.store.Create(ctx, d); err != nil {
		return Document{}, domainerrors.Wrap(domainerrors.CodeInternal, "échec d'enregistrement du document", err)
	}
	return d, nil
}

// Update applies a partial merge. A status change is a one-shot validation
// action: en_attente → valide|rejete, audited with the reviewer comment; a
// document already reviewed cannot change status again.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Document, error) {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Document{}, mapStoreErr(err)
	}

	if patch.Status != nil && *patch.Status != d.Status {
		target := *patch.Status
		if d.Status != StatusPending {
			return Document{}, domainerrors.Newf(domainerrors.CodeStateConflict,
				"document déjà évalué (%s)", d.Status)
		}
		var action string
		switch target {
		case StatusValidated:
			action = "Document validé"
		case StatusRejected:
			action = "Document rejeté"
			if strings.TrimSpace(patch.Comment) == "" {
				return Document{}, domainerrors.New(domainerrors.CodeValidation,
					"un commentaire est requis pour rejeter un document")
			}
		default:
			return Document{}, domainerrors.Newf(domainerrors.CodeValidation,
				"statut de document invalide: %s", target)
		}
		if _, err := s.recorder.Record(ctx, audit.Event{
			DossierID:   d.DossierID,
			Action:      action,
			Responsible: patch.Responsible,
			Comment:     strings.TrimSpace(fmt.Sprintf("%s %s", d.Name, formatComment(patch.Comment))),
		}); err != nil {
			return Document{}, err
		}
		d.Status = target
		d.Comment = patch.Comment
	}

	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.URL != nil {
		d.URL = *patch.URL
	}

	if err := s.store.Update(ctx, d); err != nil {
		return Document{}, mapStoreErr(err)
	}
	return d, nil
}

// Remove deletes an attachment and audits the removal.
func (s *Service) Remove(ctx context.Context, id, responsible string) error {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if _, err := s.recorder.Record(ctx, audit.Event{
		DossierID:   d.DossierID,
		Action:      "Document supprimé",
		Responsible: responsible,
		Comment:     fmt.Sprintf("%s (%s)", d.Name, d.Type),
	}); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// ListByDossier returns a dossier's attachments in upload order.
func (s *Service) ListByDossier(ctx context.Context, dossierID string) ([]Document, error) {
	return s.store.ListByDossier(ctx, dossierID)
}

// Completeness reports which required types are unsatisfied. A type counts as
// satisfied when at least one non-rejected document of that type exists: a
// document still en_attente satisfies its type, mirroring the reference
// behavior.
func (s *Service) Completeness(ctx context.Context, dossierID string) (Report, error) {
	docs, err := s.store.ListByDossier(ctx, dossierID)
	if err != nil {
		return Report{}, err
	}

	satisfied := make(map[Type]bool)
	for _, d := range docs {
		if d.Status != StatusRejected {
			satisfied[d.Type] = true
		}
	}

	report := Report{MissingTypes: []Type{}}
	for _, t := range s.required {
		if !satisfied[t] {
			report.MissingTypes = append(report.MissingTypes, t)
		}
	}
	report.IsComplete = len(report.MissingTypes) == 0
	return report, nil
}

// Check adapts Completeness to the case store's gate interface.
func (s *Service) Check(ctx context.Context, dossierID string) (bool, []string, error) {
	report, err := s.Completeness(ctx, dossierID)
	if err != nil {
		return false, nil, err
	}
	missing := make([]string, len(report.MissingTypes))
	for i, t := range report.MissingTypes {
		missing[i] = string(t)
	}
	return report.IsComplete, missing, nil
}

func formatComment(comment string) string {
	if comment == "" {
		return ""
	}
	return "- " + comment
}

func mapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.Wrap(domainerrors.CodeNotFound, "document introuvable", err)
	}
	return err
}
