package dossier

import (
	"time"

	"certitrack/internal/audit"
)

// Status is the dossier lifecycle state. Values are wire-visible and match
// the upstream accreditation vocabulary.
type Status string

const (
	StatusPending    Status = "en_attente"
	StatusInProgress Status = "en_cours"
	StatusComplete   Status = "complet"
	StatusToCorrect  Status = "a_corriger"
	StatusRejected   Status = "rejete"
	StatusCertified  Status = "certifie"
)

// AllStatuses lists every lifecycle state, used by the statistics projection.
var AllStatuses = []Status{
	StatusPending, StatusInProgress, StatusComplete,
	StatusToCorrect, StatusRejected, StatusCertified,
}

// transitions is the legal forward edge set. StatusCertified never appears as
// a target here: certification is reachable only through certificate
// issuance, which uses its own path.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusComplete, StatusRejected},
	StatusInProgress: {StatusComplete, StatusRejected},
	StatusComplete:   {StatusToCorrect, StatusRejected},
	StatusToCorrect:  {StatusInProgress, StatusComplete, StatusRejected},
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether the dossier status can no longer move.
// A certificate's own status may still change independently.
func (s Status) Terminal() bool {
	return s == StatusCertified || s == StatusRejected
}

// CanTransition reports whether from → to is a legal explicit transition.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Dossier is a single certification application tracked end-to-end.
// History is loaded from the audit trail on read; stores never persist it as
// part of the dossier row, so no write path can overwrite the trail.
type Dossier struct {
	ID               string        `json:"id"`
	OperatorName     string        `json:"operateurNom"`
	PromoterName     string        `json:"promoteurNom,omitempty"`
	Phone            string        `json:"telephone,omitempty"`
	ProductType      string        `json:"typeProduit"`
	Status           Status        `json:"status"`
	TransmissionDate time.Time     `json:"dateTransmission"`
	DeadlineDays     int           `json:"delai"`
	DueDate          time.Time     `json:"dateButoir"`
	EvaluationParams []string      `json:"parametresEvaluation"`
	History          []audit.Event `json:"historique,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// dueDate derives the processing deadline from the transmission date and the
// allotted number of days.
func dueDate(transmission time.Time, days int) time.Time {
	return transmission.AddDate(0, 0, days)
}

// CreateInput carries the caller-supplied fields for intake.
type CreateInput struct {
	OperatorName     string
	PromoterName     string
	Phone            string
	ProductType      string
	TransmissionDate time.Time
	DeadlineDays     int
	EvaluationParams []string
	Responsible      string
}

// Patch is a partial update. Nil fields are left untouched; Status changes
// go through the state machine and the audit trail.
type Patch struct {
	OperatorName     *string
	PromoterName     *string
	Phone            *string
	ProductType      *string
	Status           *Status
	TransmissionDate *time.Time
	DeadlineDays     *int
	EvaluationParams *[]string
	Responsible      string
	Comment          string
}
