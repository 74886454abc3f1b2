package feenote

import "time"

// Status is the administrative validation state of a fee note. It is
// independent of the payment flag.
type Status string

const (
	StatusPending   Status = "en_attente"
	StatusValidated Status = "valide"
	StatusRejected  Status = "rejete"
)

// Components itemizes the four fee lines of a note.
type Components struct {
	Management   float64 `json:"gestion"`
	Inspection   float64 `json:"inspection"`
	Analyses     float64 `json:"analyses"`
	Surveillance float64 `json:"surveillance"`
}

// Sum totals the four components.
func (c Components) Sum() float64 {
	return c.Management + c.Inspection + c.Analyses + c.Surveillance
}

// FeeNote is a billing record tied to a dossier. Total is fixed at creation
// time from the components and deliberately not recomputed when components
// are edited later.
type FeeNote struct {
	ID         string     `json:"id"`
	DossierID  string     `json:"dossierId"`
	Components Components `json:"composantes"`
	Total      float64    `json:"montant"`
	Status     Status     `json:"status"`
	Paid       bool       `json:"acquitte"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateInput carries caller-supplied fields for a new note.
type CreateInput struct {
	DossierID   string
	Components  Components
	Responsible string
}

// Patch is an administrative partial update; it never cascades into the
// trail and never recomputes Total.
type Patch struct {
	Components *Components
	Status     *Status
}
