package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"certitrack/internal/audit"
	"certitrack/internal/certificate"
	"certitrack/internal/document"
	"certitrack/internal/dossier"
	"certitrack/internal/feenote"
	"certitrack/internal/inspection"
	"certitrack/internal/notification"
	domainerrors "certitrack/pkg/domain-errors"
)

func TestCompute(t *testing.T) {
	t.Run("empty snapshot zero-seeds every status", func(t *testing.T) {
		s := Compute(nil)
		assert.Zero(t, s.Total)
		assert.Len(t, s.ByStatus, len(dossier.AllStatuses))
		for _, st := range dossier.AllStatuses {
			count, ok := s.ByStatus[st]
			assert.True(t, ok)
			assert.Zero(t, count)
		}
	})

	t.Run("counts per status", func(t *testing.T) {
		s := Compute([]dossier.Dossier{
			{Status: dossier.StatusPending},
			{Status: dossier.StatusPending},
			{Status: dossier.StatusCertified},
		})
		assert.Equal(t, 3, s.Total)
		assert.Equal(t, 2, s.ByStatus[dossier.StatusPending])
		assert.Equal(t, 1, s.ByStatus[dossier.StatusCertified])
		assert.Equal(t, 0, s.ByStatus[dossier.StatusRejected])
	})
}

type StatsServiceSuite struct {
	suite.Suite
	dossiers     *dossier.Service
	documents    *document.Service
	inspections  *inspection.Service
	certificates *certificate.Service
	feenotes     *feenote.Service
	service      *Service
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}

func (s *StatsServiceSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	trail := audit.NewService(audit.NewInMemoryStore(), nil, log)
	notifier := notification.NewService(notification.NewInMemoryStore(), nil, log)

	s.dossiers = dossier.NewService(dossier.NewInMemoryStore(), trail, nil, log)
	s.documents = document.NewService(document.NewInMemoryStore(), s.dossiers)
	s.dossiers.BindCompleteness(s.documents)
	s.inspections = inspection.NewService(inspection.NewInMemoryStore(), s.dossiers, notifier, log)
	s.certificates = certificate.NewService(certificate.NewInMemoryStore(), s.dossiers, s.dossiers, notifier, log)
	s.feenotes = feenote.NewService(feenote.NewInMemoryStore(), s.dossiers, notifier, log)
	s.service = NewService(s.dossiers, s.documents, s.inspections, s.certificates, s.feenotes)
}

func (s *StatsServiceSuite) TestStatistics() {
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.dossiers.Create(ctx, dossier.CreateInput{
			OperatorName: "Ets Mbarga",
			ProductType:  "cacao",
		})
		s.Require().NoError(err)
	}

	got, err := s.service.Statistics(ctx)
	s.Require().NoError(err)
	s.Equal(2, got.Total)
	s.Equal(2, got.ByStatus[dossier.StatusPending])

	// The projection is recomputed, never cached.
	d, err := s.dossiers.Create(ctx, dossier.CreateInput{
		OperatorName: "Coopérative Ngo",
		ProductType:  "café",
	})
	s.Require().NoError(err)
	inProgress := dossier.StatusInProgress
	_, err = s.dossiers.Update(ctx, d.ID, dossier.Patch{Status: &inProgress})
	s.Require().NoError(err)

	got, err = s.service.Statistics(ctx)
	s.Require().NoError(err)
	s.Equal(3, got.Total)
	s.Equal(2, got.ByStatus[dossier.StatusPending])
	s.Equal(1, got.ByStatus[dossier.StatusInProgress])
}

func (s *StatsServiceSuite) TestExport() {
	ctx := context.Background()

	d, err := s.dossiers.Create(ctx, dossier.CreateInput{
		OperatorName: "Ets Mbarga",
		ProductType:  "cacao",
	})
	s.Require().NoError(err)

	_, err = s.documents.Add(ctx, document.AddInput{
		DossierID: d.ID,
		Type:      document.TypeRegistreCommerce,
		Name:      "registre.pdf",
	})
	s.Require().NoError(err)

	_, err = s.inspections.Schedule(ctx, inspection.ScheduleInput{
		DossierID:  d.ID,
		Inspectors: []string{"M. Essomba"},
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	_, err = s.certificates.Issue(ctx, certificate.IssueInput{
		DossierID: d.ID,
		Number:    "CERT-2024-001",
	})
	s.Require().NoError(err)

	_, err = s.feenotes.Create(ctx, feenote.CreateInput{
		DossierID:  d.ID,
		Components: feenote.Components{Management: 100},
	})
	s.Require().NoError(err)

	export, err := s.service.Export(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(d.ID, export.Dossier.ID)
	s.Equal(dossier.StatusCertified, export.Dossier.Status)
	s.Len(export.Documents, 1)
	s.Len(export.Inspections, 1)
	s.Len(export.Certificates, 1)
	s.Len(export.FeeNotes, 1)
	s.NotEmpty(export.Dossier.History)

	_, err = s.service.Export(ctx, "missing")
	s.Equal(domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}
