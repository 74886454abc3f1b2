package certificate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"certitrack/internal/audit"
	"certitrack/internal/notification"
	domainerrors "certitrack/pkg/domain-errors"
	"certitrack/pkg/platform/sentinel"
)

// CaseRegistry is the certificate subsystem's path into the case store:
// issuance both appends the trail entry and forces the dossier to certifie
// under the case store's per-dossier lock. The commit callback is executed
// inside that lock so the caller's own checks and writes are serialized with
// every other mutation on the same dossier.
type CaseRegistry interface {
	Certify(ctx context.Context, dossierID, action, responsible, comment string, commit func(ctx context.Context) error) error
}

// Service issues certificates and tracks their own lifecycle. Issuance is
// the only path that moves a dossier to certifie.
type Service struct {
	store    Store
	cases    CaseRegistry
	recorder audit.Recorder
	notifier notification.Notifier
	logger   *slog.Logger
	labels   map[string]string
	clock    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithKindLabels overrides the number-prefix-to-label mapping.
func WithKindLabels(labels map[string]string) ServiceOption {
	return func(s *Service) {
		if len(labels) > 0 {
			s.labels = labels
		}
	}
}

// WithServiceClock pins the service clock for tests.
func WithServiceClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(store Store, cases CaseRegistry, recorder audit.Recorder, notifier notification.Notifier, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		cases:    cases,
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
		labels:   KindLabels,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Issue creates an active certificate and forces the owning dossier to
// certifie. At most one active certificate may exist per dossier; issuance
// against a dossier that already holds one is a state conflict.
func (s *Service) Issue(ctx context.Context, in IssueInput) (Certificate, error) {
	if in.DossierID == "" {
		return Certificate{}, domainerrors.New(domainerrors.CodeValidation, "dossierId requis")
	}
	if strings.TrimSpace(in.Number) == "" {
		return Certificate{}, domainerrors.New(domainerrors.CodeValidation, "numero requis")
	}

	c := Certificate{
		ID:        uuid.NewString(),
		DossierID: in.DossierID,
		Number:    in.Number,
		Status:    StatusActive,
		IssuedAt:  s.clock(),
		ExpiresAt: in.ExpiresAt,
	}

	// The exclusivity check and the certificate write both run inside the
	// dossier's critical section; two concurrent issuances for the same
	// dossier cannot both pass the check.
	created := false
	commit := func(ctx context.Context) error {
		existing, err := s.store.ListByDossier(ctx, in.DossierID)
		if err != nil {
			return err
		}
		for _, prior := range existing {
			if prior.Status == StatusActive {
				return domainerrors.Newf(domainerrors.CodeStateConflict,
					"un certificat actif existe déjà pour ce dossier (%s)", prior.Number)
			}
		}
		if err := s.store.Create(ctx, c); err != nil {
			return domainerrors.Wrap(domainerrors.CodeInternal, "échec d'enregistrement du certificat", err)
		}
		created = true
		return nil
	}

	label := kindLabel(s.labels, in.Number)
	if err := s.cases.Certify(ctx, in.DossierID, issuanceAction(label), in.Responsible, in.Comment, commit); err != nil {
		if created {
			// The trail append or status flip failed after the row was
			// written; roll the row back so no certificate exists for a
			// dossier that was never certified.
			if delErr := s.store.Delete(ctx, c.ID); delErr != nil {
				s.logger.Error("certificate rollback failed",
					"certificate_id", c.ID, "dossier_id", c.DossierID, "error", delErr.Error())
			}
		}
		return Certificate{}, err
	}

	if s.notifier != nil {
		if _, err := s.notifier.Notify(ctx, notification.Input{
			Type:      notification.TypeInfo,
			Title:     label,
			Message:   fmt.Sprintf("%s %s émis", label, c.Number),
			DossierID: c.DossierID,
		}); err != nil {
			s.logger.Warn("notification emit failed", "dossier_id", c.DossierID, "error", err.Error())
		}
	}
	return c, nil
}

// UpdateStatus moves a certificate through its own lifecycle. It appends a
// trail entry with the prefix-derived label and touches nothing else on the
// owning dossier.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, responsible string) (Certificate, error) {
	if !knownStatuses[status] {
		return Certificate{}, domainerrors.Newf(domainerrors.CodeValidation, "statut de certificat inconnu: %s", status)
	}

	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Certificate{}, mapStoreErr(err)
	}
	if c.Status == status {
		return c, nil
	}

	label := kindLabel(s.labels, c.Number)
	if _, err := s.recorder.Record(ctx, audit.Event{
		DossierID:   c.DossierID,
		Action:      fmt.Sprintf("%s: statut %s → %s", label, c.Status, status),
		Responsible: responsible,
		Comment:     c.Number,
	}); err != nil {
		return Certificate{}, err
	}

	c.Status = status
	if err := s.store.Update(ctx, c); err != nil {
		return Certificate{}, mapStoreErr(err)
	}
	return c, nil
}

// ListByDossier returns a dossier's certificates in issuance order.
func (s *Service) ListByDossier(ctx context.Context, dossierID string) ([]Certificate, error) {
	return s.store.ListByDossier(ctx, dossierID)
}

// issuanceAction renders the trail action for an issuance, agreeing with the
// label's grammatical gender for the default mapping.
func issuanceAction(label string) string {
	if strings.HasPrefix(label, "Lettre") {
		return label + " émise"
	}
	return label + " émis"
}

func mapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.Wrap(domainerrors.CodeNotFound, "certificat introuvable", err)
	}
	return err
}
