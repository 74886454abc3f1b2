package inspection

import "time"

// Result is the outcome of a site inspection.
type Result string

const (
	ResultPending    Result = "en_attente"
	ResultConform    Result = "conforme"
	ResultNonConform Result = "non_conforme"
)

// Inspection is a scheduled or completed site visit for a dossier.
type Inspection struct {
	ID         string    `json:"id"`
	DossierID  string    `json:"dossierId"`
	Inspectors []string  `json:"inspecteurs"`
	Location   string    `json:"lieu"`
	Date       time.Time `json:"dateInspection"`
	Result     Result    `json:"resultat"`
	Notes      string    `json:"notes,omitempty"`
}

// ScheduleInput carries caller-supplied fields for a new inspection.
type ScheduleInput struct {
	DossierID   string
	Inspectors  []string
	Location    string
	Date        time.Time
	Responsible string
}
