package audit

import "time"

// Event is one immutable entry in a dossier's trail. Events are created only
// as a side effect of a mutation and are never updated or deleted; insertion
// order is chronological order.
type Event struct {
	ID          string    `json:"id"`
	DossierID   string    `json:"dossierId"`
	Date        time.Time `json:"date"`
	Action      string    `json:"action"`
	Responsible string    `json:"responsable"`
	Comment     string    `json:"commentaire,omitempty"`
}

// SystemResponsible is recorded when no caller identity accompanies a
// mutation.
const SystemResponsible = "Système"
