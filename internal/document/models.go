package document

import "time"

// Type enumerates the document kinds a dossier may carry. The first five are
// required for completeness; the rest are optional attachments.
type Type string

const (
	TypeRegistreCommerce    Type = "registre_commerce"
	TypeCarteContribuable   Type = "carte_contribuable"
	TypeProcessusProduction Type = "processus_production"
	TypeListePersonnel      Type = "liste_personnel"
	TypePlanLocalisation    Type = "plan_localisation"
	TypeManuelQualite       Type = "manuel_qualite"
	TypeAutre               Type = "autre"
)

// DefaultRequiredTypes is the completeness rule injected at startup. The core
// depends on the enumeration but does not own it.
var DefaultRequiredTypes = []Type{
	TypeRegistreCommerce,
	TypeCarteContribuable,
	TypeProcessusProduction,
	TypeListePersonnel,
	TypePlanLocalisation,
}

var knownTypes = map[Type]bool{
	TypeRegistreCommerce:    true,
	TypeCarteContribuable:   true,
	TypeProcessusProduction: true,
	TypeListePersonnel:      true,
	TypePlanLocalisation:    true,
	TypeManuelQualite:       true,
	TypeAutre:               true,
}

// Status is the validation state of an attachment.
type Status string

const (
	StatusPending   Status = "en_attente"
	StatusValidated Status = "valide"
	StatusRejected  Status = "rejete"
)

// Document is a per-dossier attachment. The core stores only the blob URL and
// metadata; it never inspects blob bytes. A document is validated or rejected
// exactly once; a re-upload is a new document, not a reset.
type Document struct {
	ID         string    `json:"id"`
	DossierID  string    `json:"dossierId"`
	Type       Type      `json:"type"`
	Name       string    `json:"nom"`
	Status     Status    `json:"status"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"dateUpload"`
	Comment    string    `json:"commentaire,omitempty"`
}

// AddInput carries caller-supplied fields for a new attachment.
type AddInput struct {
	DossierID   string
	Type        Type
	Name        string
	URL         string
	Responsible string
}

// Patch is a partial update. Only a Status change cascades into the trail.
type Patch struct {
	Name        *string
	URL         *string
	Status      *Status
	Comment     string
	Responsible string
}

// Report is the completeness verdict for one dossier.
type Report struct {
	IsComplete   bool   `json:"isComplete"`
	MissingTypes []Type `json:"missingTypes"`
}
