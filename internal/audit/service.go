package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"certitrack/internal/platform/metrics"
)

// Recorder is the interface dependent subsystems use to cascade events into a
// dossier's trail. Service is the production implementation.
type Recorder interface {
	Record(ctx context.Context, event Event) (Event, error)
}

// Service appends structured audit events. The primary append is synchronous
// with the calling mutation so trail order matches call order; an optional
// mirror channel fans events out to secondary sinks (kafka, archival) without
// blocking the caller.
type Service struct {
	store   Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	clock   Clock
	mirror  chan<- Event
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceClock pins the service clock for tests.
func WithServiceClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMirror attaches a mirror channel consumed by a Worker. Sends are
// non-blocking; a full channel drops the mirror copy (the store append has
// already succeeded) and logs the drop.
func WithMirror(mirror chan<- Event) ServiceOption {
	return func(s *Service) {
		s.mirror = mirror
	}
}

func NewService(store Store, m *metrics.Metrics, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{store: store, metrics: m, logger: logger, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Record assigns identity and timestamp, appends to the trail, and mirrors.
func (s *Service) Record(ctx context.Context, event Event) (Event, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Date.IsZero() {
		event.Date = s.clock()
	}
	if event.Responsible == "" {
		event.Responsible = SystemResponsible
	}

	if err := s.store.Append(ctx, event); err != nil {
		return Event{}, err
	}
	s.metrics.IncrementAuditEvents()

	if s.mirror != nil {
		select {
		case s.mirror <- event:
		default:
			s.logger.Warn("audit mirror channel full, dropping copy",
				"dossier_id", event.DossierID, "action", event.Action)
		}
	}

	return event, nil
}

// ListByDossier returns the ordered trail for one dossier.
func (s *Service) ListByDossier(ctx context.Context, dossierID string) ([]Event, error) {
	return s.store.ListByDossier(ctx, dossierID)
}

// BatchLister is implemented by stores that can fetch several trails in one
// round trip.
type BatchLister interface {
	ListByDossiers(ctx context.Context, dossierIDs []string) (map[string][]Event, error)
}

// ListByDossiers returns trails keyed by dossier id, using the store's batch
// path when it has one and falling back to per-id lookups otherwise.
func (s *Service) ListByDossiers(ctx context.Context, dossierIDs []string) (map[string][]Event, error) {
	if bl, ok := s.store.(BatchLister); ok {
		return bl.ListByDossiers(ctx, dossierIDs)
	}
	result := make(map[string][]Event, len(dossierIDs))
	for _, id := range dossierIDs {
		events, err := s.store.ListByDossier(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(events) > 0 {
			result[id] = events
		}
	}
	return result, nil
}

// DeleteTrail drops a dossier's trail. The dossier owns its history
// exclusively, so deleting the dossier is the one operation allowed to
// remove events.
func (s *Service) DeleteTrail(ctx context.Context, dossierID string) error {
	return s.store.DeleteByDossier(ctx, dossierID)
}
