package audit

import "context"

// Store is the append-only trail sink. Implementations must preserve
// insertion order per dossier and never rewrite existing events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDossier(ctx context.Context, dossierID string) ([]Event, error)
	// DeleteByDossier exists solely for the explicit dossier cleanup path;
	// nothing else may remove events.
	DeleteByDossier(ctx context.Context, dossierID string) error
}
