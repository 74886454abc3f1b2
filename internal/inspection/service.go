package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"certitrack/internal/audit"
	"certitrack/internal/notification"
	domainerrors "certitrack/pkg/domain-errors"
	"certitrack/pkg/platform/sentinel"
)

// dateFormat is the day-first rendering used in trail comments.
const dateFormat = "02/01/2006"

// Service schedules inspections and records their results, cascading both
// into the owning dossier's trail.
type Service struct {
	store    Store
	recorder audit.Recorder
	notifier notification.Notifier
	logger   *slog.Logger
}

func NewService(store Store, recorder audit.Recorder, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, recorder: recorder, notifier: notifier, logger: logger}
}

// Schedule registers an upcoming inspection with result en_attente.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (Inspection, error) {
	if in.DossierID == "" {
		return Inspection{}, domainerrors.New(domainerrors.CodeValidation, "dossierId requis")
	}
	if len(in.Inspectors) == 0 {
		return Inspection{}, domainerrors.New(domainerrors.CodeValidation, "au moins un inspecteur est requis")
	}
	if in.Date.IsZero() {
		return Inspection{}, domainerrors.New(domainerrors.CodeValidation, "dateInspection requise")
	}

	i := Inspection{
		ID:         uuid.NewString(),
		DossierID:  in.DossierID,
		Inspectors: in.Inspectors,
		Location:   in.Location,
		Date:       in.Date,
		Result:     ResultPending,
	}

	if _, err := s.recorder.Record(ctx, audit.Event{
		DossierID:   in.DossierID,
		Action:      "Inspection programmée",
		Responsible: in.Responsible,
		Comment:     fmt.Sprintf("Prévue le %s à %s", i.Date.Format(dateFormat), i.Location),
	}); err != nil {
		return Inspection{}, err
	}
	if err := s.store.Create(ctx, i); err != nil {
		return Inspection{}, domainerrors.Wrap(domainerrors.CodeInternal, "échec d'enregistrement de l'inspection", err)
	}
	return i, nil
}

// RecordResult finalizes an inspection. The audited comment depends on the
// outcome; a recorded result is final.
func (s *Service) RecordResult(ctx context.Context, id string, result Result, notes, responsible string) (Inspection, error) {
	i, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Inspection{}, mapStoreErr(err)
	}
	if result == i.Result {
		return i, nil
	}
	if i.Result != ResultPending {
		return Inspection{}, domainerrors.Newf(domainerrors.CodeStateConflict,
			"résultat déjà enregistré (%s)", i.Result)
	}

	var comment string
	switch result {
	case ResultConform:
		comment = "Inspection validée comme conforme"
	case ResultNonConform:
		comment = "Inspection validée comme non conforme"
	default:
		comment = fmt.Sprintf("Résultat d'inspection: %s", result)
	}

	if _, err := s.recorder.Record(ctx, audit.Event{
		DossierID:   i.DossierID,
		Action:      "Résultat d'inspection enregistré",
		Responsible: responsible,
		Comment:     comment,
	}); err != nil {
		return Inspection{}, err
	}

	i.Result = result
	i.Notes = notes
	if err := s.store.Update(ctx, i); err != nil {
		return Inspection{}, mapStoreErr(err)
	}

	if result == ResultNonConform && s.notifier != nil {
		if _, err := s.notifier.Notify(ctx, notification.Input{
			Type:      notification.TypeWarning,
			Title:     "Inspection non conforme",
			Message:   fmt.Sprintf("Inspection du %s non conforme", i.Date.Format(dateFormat)),
			DossierID: i.DossierID,
		}); err != nil {
			s.logger.Warn("notification emit failed", "dossier_id", i.DossierID, "error", err.Error())
		}
	}
	return i, nil
}

// ListByDossier returns a dossier's inspections in date order.
func (s *Service) ListByDossier(ctx context.Context, dossierID string) ([]Inspection, error) {
	return s.store.ListByDossier(ctx, dossierID)
}

func mapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.Wrap(domainerrors.CodeNotFound, "inspection introuvable", err)
	}
	return err
}
