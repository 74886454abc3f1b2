package notification

import "time"

// Type grades a notification's urgency.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeAlert   Type = "alert"
)

// Notification is a user-facing alert. It is immutable once emitted except
// for the Read flag.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"titre"`
	Message   string    `json:"message"`
	Recipient string    `json:"destinataire,omitempty"`
	DossierID string    `json:"dossierId,omitempty"`
	Read      bool      `json:"lue"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input carries the fields a producer supplies when emitting.
type Input struct {
	Type      Type
	Title     string
	Message   string
	Recipient string
	DossierID string
}
