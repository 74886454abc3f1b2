package feenote

import "context"

// Store persists fee notes independently of the dossier rows.
type Store interface {
	Create(ctx context.Context, n FeeNote) error
	FindByID(ctx context.Context, id string) (FeeNote, error)
	Update(ctx context.Context, n FeeNote) error
	ListByDossier(ctx context.Context, dossierID string) ([]FeeNote, error)
}
