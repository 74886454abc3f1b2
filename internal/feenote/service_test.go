package feenote

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"certitrack/internal/audit"
	"certitrack/internal/notification"
	domainerrors "certitrack/pkg/domain-errors"
)

type recorderStub struct {
	events []audit.Event
}

func (r *recorderStub) Record(_ context.Context, event audit.Event) (audit.Event, error) {
	r.events = append(r.events, event)
	return event, nil
}

type FeeNoteServiceSuite struct {
	suite.Suite
	recorder *recorderStub
	service  *Service
}

func TestFeeNoteServiceSuite(t *testing.T) {
	suite.Run(t, new(FeeNoteServiceSuite))
}

func (s *FeeNoteServiceSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.recorder = &recorderStub{}
	notifier := notification.NewService(notification.NewInMemoryStore(), nil, log)
	s.service = NewService(NewInMemoryStore(), s.recorder, notifier, log)
}

func (s *FeeNoteServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("total is the sum of the components", func() {
		n, err := s.service.Create(ctx, CreateInput{
			DossierID: "d1",
			Components: Components{
				Management:   100,
				Inspection:   250,
				Analyses:     75.50,
				Surveillance: 24.50,
			},
			Responsible: "Mme Ndongo",
		})
		s.Require().NoError(err)
		s.Equal(450.0, n.Total)
		s.Equal(StatusPending, n.Status)
		s.False(n.Paid)

		s.Require().Len(s.recorder.events, 1)
		s.Equal("Note de frais créée", s.recorder.events[0].Action)
		s.Equal("Montant total: 450.00", s.recorder.events[0].Comment)
	})

	s.Run("negative component is a validation error", func() {
		_, err := s.service.Create(ctx, CreateInput{
			DossierID:  "d1",
			Components: Components{Inspection: -1},
		})
		s.Equal(domainerrors.CodeValidation, domainerrors.CodeOf(err))
	})

	s.Run("missing dossier id is a validation error", func() {
		_, err := s.service.Create(ctx, CreateInput{})
		s.Equal(domainerrors.CodeValidation, domainerrors.CodeOf(err))
	})
}

func (s *FeeNoteServiceSuite) TestUpdate() {
	ctx := context.Background()

	n, err := s.service.Create(ctx, CreateInput{
		DossierID:  "d1",
		Components: Components{Management: 100, Inspection: 200},
	})
	s.Require().NoError(err)
	auditedBefore := len(s.recorder.events)

	s.Run("component edits never recompute the total", func() {
		got, err := s.service.Update(ctx, n.ID, Patch{
			Components: &Components{Management: 500, Inspection: 500},
		})
		s.Require().NoError(err)
		s.Equal(1000.0, got.Components.Sum())
		s.Equal(300.0, got.Total)
	})

	s.Run("status moves without an audit cascade", func() {
		validated := StatusValidated
		got, err := s.service.Update(ctx, n.ID, Patch{Status: &validated})
		s.Require().NoError(err)
		s.Equal(StatusValidated, got.Status)
		s.Len(s.recorder.events, auditedBefore)
	})

	s.Run("unknown status is a validation error", func() {
		bogus := Status("paye")
		_, err := s.service.Update(ctx, n.ID, Patch{Status: &bogus})
		s.Equal(domainerrors.CodeValidation, domainerrors.CodeOf(err))
	})

	s.Run("unknown note is not found", func() {
		_, err := s.service.Update(ctx, "missing", Patch{})
		s.Equal(domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	})
}

func (s *FeeNoteServiceSuite) TestMarkPaid() {
	ctx := context.Background()

	n, err := s.service.Create(ctx, CreateInput{
		DossierID:  "d1",
		Components: Components{Management: 100},
	})
	s.Require().NoError(err)

	s.Run("payment and validation are independent axes", func() {
		got, err := s.service.MarkPaid(ctx, n.ID)
		s.Require().NoError(err)
		s.True(got.Paid)
		s.Equal(StatusPending, got.Status)
	})

	s.Run("marking twice is idempotent", func() {
		got, err := s.service.MarkPaid(ctx, n.ID)
		s.Require().NoError(err)
		s.True(got.Paid)
	})

	s.Run("unknown note is not found", func() {
		_, err := s.service.MarkPaid(ctx, "missing")
		s.Equal(domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	})
}
