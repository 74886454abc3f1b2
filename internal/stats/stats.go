// Package stats is the read-side projection over the case store. Nothing
// here is incrementally maintained: every call recomputes from current
// state, so callers can never observe a stale count after a mutation.
package stats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"certitrack/internal/certificate"
	"certitrack/internal/document"
	"certitrack/internal/dossier"
	"certitrack/internal/feenote"
	"certitrack/internal/inspection"
)

// Statistics is the per-status breakdown of the dossier collection. Every
// known status appears as a key, zero-valued when absent.
type Statistics struct {
	Total    int                    `json:"total"`
	ByStatus map[dossier.Status]int `json:"parStatut"`
}

// Compute is a pure function over a dossier snapshot.
func Compute(dossiers []dossier.Dossier) Statistics {
	s := Statistics{
		Total:    len(dossiers),
		ByStatus: make(map[dossier.Status]int, len(dossier.AllStatuses)),
	}
	for _, st := range dossier.AllStatuses {
		s.ByStatus[st] = 0
	}
	for _, d := range dossiers {
		s.ByStatus[d.Status]++
	}
	return s
}

// CaseSource is the slice of the case store the projection reads.
type CaseSource interface {
	List(ctx context.Context) ([]dossier.Dossier, error)
	Get(ctx context.Context, id string) (dossier.Dossier, error)
}

// DocumentSource lists a dossier's attachments.
type DocumentSource interface {
	ListByDossier(ctx context.Context, dossierID string) ([]document.Document, error)
}

// InspectionSource lists a dossier's inspections.
type InspectionSource interface {
	ListByDossier(ctx context.Context, dossierID string) ([]inspection.Inspection, error)
}

// CertificateSource lists a dossier's certificates.
type CertificateSource interface {
	ListByDossier(ctx context.Context, dossierID string) ([]certificate.Certificate, error)
}

// FeeNoteSource lists a dossier's fee notes.
type FeeNoteSource interface {
	ListByDossier(ctx context.Context, dossierID string) ([]feenote.FeeNote, error)
}

// DossierExport bundles a dossier with every dependent collection.
type DossierExport struct {
	Dossier      dossier.Dossier           `json:"dossier"`
	Documents    []document.Document       `json:"documents"`
	Inspections  []inspection.Inspection   `json:"inspections"`
	Certificates []certificate.Certificate `json:"certificats"`
	FeeNotes     []feenote.FeeNote         `json:"notesFrais"`
}

// Service exposes the projection over live stores.
type Service struct {
	cases        CaseSource
	documents    DocumentSource
	inspections  InspectionSource
	certificates CertificateSource
	feenotes     FeeNoteSource
}

func NewService(cases CaseSource, documents DocumentSource, inspections InspectionSource, certificates CertificateSource, feenotes FeeNoteSource) *Service {
	return &Service{
		cases:        cases,
		documents:    documents,
		inspections:  inspections,
		certificates: certificates,
		feenotes:     feenotes,
	}
}

// Statistics recomputes the projection from the full collection.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	dossiers, err := s.cases.List(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return Compute(dossiers), nil
}

// Export gathers a dossier and its dependent collections in parallel with
// shared cancellation on first failure.
func (s *Service) Export(ctx context.Context, dossierID string) (DossierExport, error) {
	d, err := s.cases.Get(ctx, dossierID)
	if err != nil {
		return DossierExport{}, err
	}

	export := DossierExport{Dossier: d}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		docs, err := s.documents.ListByDossier(ctx, dossierID)
		if err != nil {
			return err
		}
		export.Documents = docs
		return nil
	})
	g.Go(func() error {
		inspections, err := s.inspections.ListByDossier(ctx, dossierID)
		if err != nil {
			return err
		}
		export.Inspections = inspections
		return nil
	})
	g.Go(func() error {
		certs, err := s.certificates.ListByDossier(ctx, dossierID)
		if err != nil {
			return err
		}
		export.Certificates = certs
		return nil
	})
	g.Go(func() error {
		notes, err := s.feenotes.ListByDossier(ctx, dossierID)
		if err != nil {
			return err
		}
		export.FeeNotes = notes
		return nil
	})

	if err := g.Wait(); err != nil {
		return DossierExport{}, err
	}
	return export, nil
}
