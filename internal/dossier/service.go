package dossier

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
	"certitrack/internal/platform/metrics"
	domainerrors "certitrack/pkg/domain-errors"
	"certitrack/pkg/platform/sentinel"
)

// CompletenessChecker answers whether a dossier's required documents are all
// satisfied. The document subsystem provides the production implementation;
// it is bound after construction because the two services reference each
// other.
type CompletenessChecker interface {
	Check(ctx context.Context, dossierID string) (complete bool, missing []string, err error)
}

// Service is the case store: it owns the status state machine, the audit
// cascade, and per-dossier mutation serialization. Dependent subsystems reach
// the trail through Record so their appends share the same per-id lock as
// direct dossier mutations.
type Service struct {
	store         Store
	trail         *audit.Service
	notifier      notification.Notifier
	completeness  CompletenessChecker
	metrics       *metrics.Metrics
	logger        *slog.Logger
	clock         func() time.Time
	locks         *keyedMutex
	technicalLead string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock pins the service clock for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithNotifier routes intake notifications to the given feed and recipient.
func WithNotifier(n notification.Notifier, technicalLead string) ServiceOption {
	return func(s *Service) {
		s.notifier = n
		s.technicalLead = technicalLead
	}
}

func NewService(store Store, trail *audit.Service, m *metrics.Metrics, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		trail:   trail,
		metrics: m,
		logger:  logger,
		clock:   time.Now,
		locks:   newKeyedMutex(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// BindCompleteness attaches the document completeness check used to gate the
// transition to "complet". Bound post-construction to break the wiring cycle
// with the document service.
func (s *Service) BindCompleteness(c CompletenessChecker) {
	s.completeness = c
}

// Create validates intake fields, persists the dossier, seeds its trail with
// the creation event, and notifies the technical lead.
func (s *Service) Create(ctx context.Context, in CreateInput) (Dossier, error) {
	d, err := s.newDossier(in)
	if err != nil {
		return Dossier{}, err
	}
	return s.persist(ctx, d, in.Responsible)
}

// CreateAsync returns the optimistic dossier immediately while the durable
// write runs in the background. The returned channel reports the write's
// outcome and is closed once it settles; callers that care about durability
// must receive from it. Validation still happens synchronously.
func (s *Service) CreateAsync(ctx context.Context, in CreateInput) (Dossier, <-chan error) {
	done := make(chan error, 1)
	d, err := s.newDossier(in)
	if err != nil {
		done <- err
		close(done)
		return Dossier{}, done
	}

	// The write must survive the request that launched it.
	bg := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		if _, err := s.persist(bg, d, in.Responsible); err != nil {
			s.logger.Error("background dossier write failed",
				"dossier_id", d.ID, "error", err.Error())
			done <- err
		}
	}()

	return d, done
}

func (s *Service) newDossier(in CreateInput) (Dossier, error) {
	if strings.TrimSpace(in.OperatorName) == "" {
		return Dossier{}, domainerrors.New(domainerrors.CodeValidation, "operateurNom requis")
	}
	if strings.TrimSpace(in.ProductType) == "" {
		return Dossier{}, domainerrors.New(domainerrors.CodeValidation, "typeProduit requis")
	}

	now := s.clock()
	transmission := in.TransmissionDate
	if transmission.IsZero() {
		transmission = now
	}
	return Dossier{
		ID:               uuid.NewString(),
		OperatorName:     in.OperatorName,
		PromoterName:     in.PromoterName,
		Phone:            in.Phone,
		ProductType:      in.ProductType,
		Status:           StatusPending,
		TransmissionDate: transmission,
		DeadlineDays:     in.DeadlineDays,
		DueDate:          dueDate(transmission, in.DeadlineDays),
		EvaluationParams: in.EvaluationParams,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (s *Service) persist(ctx context.Context, d Dossier, responsible string) (Dossier, error) {
	defer s.locks.lock(d.ID).Unlock()

	if err := s.store.Create(ctx, d); err != nil {
		return Dossier{}, domainerrors.Wrap(domainerrors.CodeInternal, "échec de création du dossier", err)
	}

	event, err := s.trail.Record(ctx, audit.Event{
		DossierID:   d.ID,
		Action:      "Création du dossier",
		Responsible: responsible,
	})
	if err != nil {
		return Dossier{}, err
	}
	d.History = []audit.Event{event}

	s.metrics.IncrementDossiersCreated()
	s.notify(ctx, notification.Input{
		Type:      notification.TypeInfo,
		Title:     "Nouveau dossier",
		Message:   fmt.Sprintf("Dossier soumis par %s (%s)", d.OperatorName, d.ProductType),
		Recipient: s.technicalLead,
		DossierID: d.ID,
	})
	return d, nil
}

// Update applies a partial merge. A status change is validated against the
// state machine and audited before the merge is applied; all other fields are
// last-write-wins and never audited. The patch cannot touch History.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Dossier, error) {
	defer s.locks.lock(id).Unlock()

	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Dossier{}, mapStoreErr(err)
	}

	if patch.Status != nil && *patch.Status != d.Status {
		target := *patch.Status
		if err := s.checkTransition(ctx, d, target, patch); err != nil {
			return Dossier{}, err
		}
		if _, err := s.trail.Record(ctx, audit.Event{
			DossierID:   id,
			Action:      fmt.Sprintf("Statut modifié: %s → %s", d.Status, target),
			Responsible: patch.Responsible,
			Comment:     patch.Comment,
		}); err != nil {
			return Dossier{}, err
		}
		s.metrics.ObserveStatusTransition(string(d.Status), string(target))
		d.Status = target
	}

	applyPatch(&d, patch)
	d.UpdatedAt = s.clock()

	if err := s.store.Update(ctx, d); err != nil {
		return Dossier{}, mapStoreErr(err)
	}
	return s.withHistory(ctx, d)
}

func (s *Service) checkTransition(ctx context.Context, d Dossier, target Status, patch Patch) error {
	if !target.Valid() {
		return domainerrors.Newf(domainerrors.CodeValidation, "statut inconnu: %s", target)
	}
	if target == StatusCertified {
		return domainerrors.New(domainerrors.CodeStateConflict,
			"le statut certifie est attribué uniquement via l'émission d'un certificat")
	}
	if !CanTransition(d.Status, target) {
		return domainerrors.Newf(domainerrors.CodeStateConflict,
			"transition illégale: %s → %s", d.Status, target)
	}
	if target == StatusToCorrect && strings.TrimSpace(patch.Comment) == "" {
		return domainerrors.New(domainerrors.CodeValidation,
			"un commentaire est requis pour renvoyer le dossier en correction")
	}
	if target == StatusComplete {
		params := d.EvaluationParams
		if patch.EvaluationParams != nil {
			params = *patch.EvaluationParams
		}
		if len(params) == 0 {
			return domainerrors.New(domainerrors.CodeValidation,
				"parametresEvaluation requis avant le passage à complet")
		}
		if s.completeness != nil {
			complete, missing, err := s.completeness.Check(ctx, d.ID)
			if err != nil {
				return err
			}
			if !complete {
				return domainerrors.Newf(domainerrors.CodeStateConflict,
					"documents requis manquants: %s", strings.Join(missing, ", "))
			}
		}
	}
	return nil
}

func applyPatch(d *Dossier, patch Patch) {
	if patch.OperatorName != nil {
		d.OperatorName = *patch.OperatorName
	}
	if patch.PromoterName != nil {
		d.PromoterName = *patch.PromoterName
	}
	if patch.Phone != nil {
		d.Phone = *patch.Phone
	}
	if patch.ProductType != nil {
		d.ProductType = *patch.ProductType
	}
	if patch.EvaluationParams != nil {
		d.EvaluationParams = *patch.EvaluationParams
	}
	recompute := false
	if patch.TransmissionDate != nil {
		d.TransmissionDate = *patch.TransmissionDate
		recompute = true
	}
	if patch.DeadlineDays != nil {
		d.DeadlineDays = *patch.DeadlineDays
		recompute = true
	}
	if recompute {
		d.DueDate = dueDate(d.TransmissionDate, d.DeadlineDays)
	}
}

// Certify is the certificate subsystem's path into the state machine. It
// appends the issuance event and forces the dossier to "certifie"; a
// rejected dossier cannot be certified. The commit callback runs inside the
// per-dossier critical section, before the event is appended, so checks and
// writes it performs cannot interleave with another certification or status
// change on the same dossier. A commit failure aborts with nothing recorded.
func (s *Service) Certify(ctx context.Context, dossierID, action, responsible, comment string, commit func(ctx context.Context) error) error {
	defer s.locks.lock(dossierID).Unlock()

	d, err := s.store.FindByID(ctx, dossierID)
	if err != nil {
		return mapStoreErr(err)
	}
	if d.Status == StatusRejected {
		return domainerrors.New(domainerrors.CodeStateConflict,
			"un dossier rejeté ne peut pas être certifié")
	}

	if commit != nil {
		if err := commit(ctx); err != nil {
			return err
		}
	}

	if _, err := s.trail.Record(ctx, audit.Event{
		DossierID:   dossierID,
		Action:      action,
		Responsible: responsible,
		Comment:     comment,
	}); err != nil {
		return err
	}

	if d.Status != StatusCertified {
		s.metrics.ObserveStatusTransition(string(d.Status), string(StatusCertified))
		d.Status = StatusCertified
		d.UpdatedAt = s.clock()
		if err := s.store.Update(ctx, d); err != nil {
			return mapStoreErr(err)
		}
	}
	return nil
}

// Record implements audit.Recorder for dependent subsystems. The append takes
// the same per-dossier lock as direct mutations so cross-subsystem cascades
// keep trail order consistent with call order, and it fails with not_found
// when the dossier does not exist.
func (s *Service) Record(ctx context.Context, event audit.Event) (audit.Event, error) {
	defer s.locks.lock(event.DossierID).Unlock()

	if _, err := s.store.FindByID(ctx, event.DossierID); err != nil {
		return audit.Event{}, mapStoreErr(err)
	}
	return s.trail.Record(ctx, event)
}

// Get returns the dossier with its trail attached.
func (s *Service) Get(ctx context.Context, id string) (Dossier, error) {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Dossier{}, mapStoreErr(err)
	}
	return s.withHistory(ctx, d)
}

// Exists reports whether a dossier is present, as a coded error.
func (s *Service) Exists(ctx context.Context, id string) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// List returns all dossiers without their trails.
func (s *Service) List(ctx context.Context) ([]Dossier, error) {
	return s.store.List(ctx)
}

// ListWithHistory returns all dossiers with their trails attached, fetching
// the trails in one batch.
func (s *Service) ListWithHistory(ctx context.Context) ([]Dossier, error) {
	dossiers, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(dossiers))
	for i, d := range dossiers {
		ids[i] = d.ID
	}
	trails, err := s.trail.ListByDossiers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range dossiers {
		dossiers[i].History = trails[dossiers[i].ID]
	}
	return dossiers, nil
}

// History returns the ordered trail for one dossier.
func (s *Service) History(ctx context.Context, id string) ([]audit.Event, error) {
	if err := s.Exists(ctx, id); err != nil {
		return nil, err
	}
	return s.trail.ListByDossier(ctx, id)
}

// Delete removes the dossier and its owned trail. Documents, inspections,
// certificates and fee notes are independent collections and are not
// cascaded; callers clean those up explicitly.
func (s *Service) Delete(ctx context.Context, id string) error {
	defer s.locks.lock(id).Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return s.trail.DeleteTrail(ctx, id)
}

func (s *Service) withHistory(ctx context.Context, d Dossier) (Dossier, error) {
	history, err := s.trail.ListByDossier(ctx, d.ID)
	if err != nil {
		return Dossier{}, err
	}
	d.History = history
	return d, nil
}

func (s *Service) notify(ctx context.Context, in notification.Input) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, in); err != nil {
		s.logger.Warn("notification emit failed",
			"dossier_id", in.DossierID, "title", in.Title, "error", err.Error())
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.Wrap(domainerrors.CodeNotFound, "dossier introuvable", err)
	}
	return err
}
