package certificate

import "context"

// Store persists certificates independently of the dossier rows.
type Store interface {
	Create(ctx context.Context, c Certificate) error
	FindByID(ctx context.Context, id string) (Certificate, error)
	Update(ctx context.Context, c Certificate) error
	// Delete exists solely for rolling back an issuance whose certification
	// step failed after the row was written.
	Delete(ctx context.Context, id string) error
	ListByDossier(ctx context.Context, dossierID string) ([]Certificate, error)
}
