package dossier

import "context"

// Store persists dossier rows. Implementations return sentinel errors;
// the service translates them into coded domain errors.
type Store interface {
	Create(ctx context.Context, d Dossier) error
	FindByID(ctx context.Context, id string) (Dossier, error)
	Update(ctx context.Context, d Dossier) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Dossier, error)
}
