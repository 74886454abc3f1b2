package certificate

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an issued certificate. It evolves
// independently of the owning dossier's status.
type Status string

const (
	StatusActive    Status = "actif"
	StatusSuspended Status = "suspendu"
	StatusWithdrawn Status = "retire"
	StatusExpired   Status = "expire"
)

var knownStatuses = map[Status]bool{
	StatusActive:    true,
	StatusSuspended: true,
	StatusWithdrawn: true,
	StatusExpired:   true,
}

// Certificate is an issued certification outcome. The number prefix encodes
// the document kind: CERT- conformity certificate, NC- non-conformity
// report, AC- corrective-actions letter.
type Certificate struct {
	ID        string    `json:"id"`
	DossierID string    `json:"dossierId"`
	Number    string    `json:"numero"`
	Status    Status    `json:"status"`
	IssuedAt  time.Time `json:"dateEmission"`
	ExpiresAt time.Time `json:"dateExpiration,omitempty"`
}

// IssueInput carries caller-supplied fields for issuance.
type IssueInput struct {
	DossierID   string
	Number      string
	ExpiresAt   time.Time
	Responsible string
	Comment     string
}

// KindLabels maps a number prefix to the human label used in trail entries.
// The mapping is configuration the core consumes, not owns; this is the
// default injected at startup.
var KindLabels = map[string]string{
	"CERT": "Certificat de conformité",
	"NC":   "Rapport de non-conformité",
	"AC":   "Lettre d'actions correctives",
}

// kindLabel resolves the document-kind label from a certificate number,
// falling back to a generic label for unknown prefixes.
func kindLabel(labels map[string]string, number string) string {
	for prefix, label := range labels {
		if strings.HasPrefix(number, prefix+"-") {
			return label
		}
	}
	return "Document de certification"
}
