package audit

import (
	"context"
	"log/slog"
)

// Publisher delivers mirrored audit events to a secondary sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes mirrored audit events from a channel and hands them to a
// publisher. Publish failures are logged, not propagated: the authoritative
// trail append already happened on the caller's path.
type Worker struct {
	publisher Publisher
	inbox     <-chan Event
	logger    *slog.Logger
}

func NewWorker(publisher Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Publish(ctx, event); err != nil {
				w.logger.Error("audit mirror publish failed",
					"dossier_id", event.DossierID,
					"action", event.Action,
					"error", err.Error(),
				)
			}
		}
	}
}
