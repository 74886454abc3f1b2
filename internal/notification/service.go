package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"certitrack/internal/platform/metrics"
	domainerrors "certitrack/pkg/domain-errors"
	"certitrack/pkg/platform/sentinel"
)

// Notifier is the interface the producing subsystems depend on.
type Notifier interface {
	Notify(ctx context.Context, in Input) (Notification, error)
}

// Service appends notifications and tracks read state. Delivery to an
// external channel (email, toast) is a collaborator concern; this service is
// the system of record for the feed.
type Service struct {
	store   Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	clock   func() time.Time
}

func NewService(store Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, metrics: m, logger: logger, clock: time.Now}
}

// Notify appends an unread notification to the global feed.
func (s *Service) Notify(ctx context.Context, in Input) (Notification, error) {
	if in.Type == "" {
		in.Type = TypeInfo
	}
	n := Notification{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Recipient: in.Recipient,
		DossierID: in.DossierID,
		CreatedAt: s.clock(),
	}
	if err := s.store.Append(ctx, n); err != nil {
		return Notification{}, domainerrors.Wrap(domainerrors.CodeInternal, "échec d'enregistrement de la notification", err)
	}
	s.metrics.IncrementNotifications()
	return n, nil
}

// MarkRead flips the read flag; every other field stays immutable.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	if err := s.store.MarkRead(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.Wrap(domainerrors.CodeNotFound, "notification introuvable", err)
		}
		return err
	}
	return nil
}

// List returns the feed in insertion order.
func (s *Service) List(ctx context.Context) ([]Notification, error) {
	return s.store.List(ctx)
}

// UnreadCount returns the number of notifications with lue=false.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.store.UnreadCount(ctx)
}
