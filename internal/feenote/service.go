package feenote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"certitrack/internal/audit"
	"certitrack/internal/notification"
	domainerrors "certitrack/pkg/domain-errors"
	"certitrack/pkg/platform/sentinel"
)

// Service manages billing records. Creation cascades into the trail; later
// edits are administrative and deliberately do not (asymmetry inherited from
// the reference system).
type Service struct {
	store    Store
	recorder audit.Recorder
	notifier notification.Notifier
	logger   *slog.Logger
	clock    func() time.Time
}

func NewService(store Store, recorder audit.Recorder, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, recorder: recorder, notifier: notifier, logger: logger, clock: time.Now}
}

// Create registers a note whose total is the sum of its four components at
// creation time. The total is never recomputed afterwards.
func (s *Service) Create(ctx context.Context, in CreateInput) (FeeNote, error) {
	if in.DossierID == "" {
		return FeeNote{}, domainerrors.New(domainerrors.CodeValidation, "dossierId requis")
	}
	c := in.Components
	if c.Management < 0 || c.Inspection < 0 || c.Analyses < 0 || c.Surveillance < 0 {
		return FeeNote{}, domainerrors.New(domainerrors.CodeValidation, "les composantes de frais doivent être positives")
	}

	n := FeeNote{
		ID:         uuid.NewString(),
		DossierID:  in.DossierID,
		Components: c,
		Total:      c.Sum(),
		Status:     StatusPending,
		CreatedAt:  s.clock(),
	}

	if _, err := s.recorder.Record(ctx, audit.Event{
		DossierID:   in.DossierID,
		Action:      "Note de frais créée",
		Responsible: in.Responsible,
		Comment:     fmt.Sprintf("Montant total: %.2f", n.Total),
	}); err != nil {
		return FeeNote{}, err
	}
	if err := s.store.Create(ctx, n); err != nil {
		return FeeNote{}, domainerrors.Wrap(domainerrors.CodeInternal, "échec d'enregistrement de la note de frais", err)
	}

	if s.notifier != nil {
		if _, err := s.notifier.Notify(ctx, notification.Input{
			Type:      notification.TypeInfo,
			Title:     "Note de frais",
			Message:   fmt.Sprintf("Note de frais de %.2f émise", n.Total),
			DossierID: n.DossierID,
		}); err != nil {
			s.logger.Warn("notification emit failed", "dossier_id", n.DossierID, "error", err.Error())
		}
	}
	return n, nil
}

// Update applies an administrative merge without any audit cascade and
// without touching Total or Paid.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (FeeNote, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return FeeNote{}, mapStoreErr(err)
	}
	if patch.Components != nil {
		c := *patch.Components
		if c.Management < 0 || c.Inspection < 0 || c.Analyses < 0 || c.Surveillance < 0 {
			return FeeNote{}, domainerrors.New(domainerrors.CodeValidation, "les composantes de frais doivent être positives")
		}
		n.Components = c
	}
	if patch.Status != nil {
		switch *patch.Status {
		case StatusPending, StatusValidated, StatusRejected:
			n.Status = *patch.Status
		default:
			return FeeNote{}, domainerrors.Newf(domainerrors.CodeValidation, "statut de note inconnu: %s", *patch.Status)
		}
	}
	if err := s.store.Update(ctx, n); err != nil {
		return FeeNote{}, mapStoreErr(err)
	}
	return n, nil
}

// MarkPaid sets the payment flag. The administrative status is untouched:
// payment and validation are independent axes.
func (s *Service) MarkPaid(ctx context.Context, id string) (FeeNote, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return FeeNote{}, mapStoreErr(err)
	}
	if n.Paid {
		return n, nil
	}
	n.Paid = true
	if err := s.store.Update(ctx, n); err != nil {
		return FeeNote{}, mapStoreErr(err)
	}
	return n, nil
}

// ListByDossier returns a dossier's notes in creation order.
func (s *Service) ListByDossier(ctx context.Context, dossierID string) ([]FeeNote, error) {
	return s.store.ListByDossier(ctx, dossierID)
}

func mapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.Wrap(domainerrors.CodeNotFound, "note de frais introuvable", err)
	}
	return err
}
