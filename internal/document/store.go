package document

import "context"

// Store persists attachments in a collection independent of the dossier rows,
// so deleting a dossier does not cascade here.
type Store interface {
	Create(ctx context.Context, d Document) error
	FindByID(ctx context.Context, id string) (Document, error)
	Update(ctx context.Context, d Document) error
	Delete(ctx context.Context, id string) error
	ListByDossier(ctx context.Context, dossierID string) ([]Document, error)
}
