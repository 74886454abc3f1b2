package inspection

import "context"

// Store persists inspections independently of the dossier rows.
type Store interface {
	Create(ctx context.Context, i Inspection) error
	FindByID(ctx context.Context, id string) (Inspection, error)
	Update(ctx context.Context, i Inspection) error
	ListByDossier(ctx context.Context, dossierID string) ([]Inspection, error)
}
