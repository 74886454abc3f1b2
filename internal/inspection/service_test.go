package inspection

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

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

type InspectionServiceSuite struct {
	suite.Suite
	recorder   *recorderStub
	notifStore *notification.InMemoryStore
	service    *Service
}

func TestInspectionServiceSuite(t *testing.T) {
	suite.Run(t, new(InspectionServiceSuite))
}

func (s *InspectionServiceSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.recorder = &recorderStub{}
	s.notifStore = notification.NewInMemoryStore()
	notifier := notification.NewService(s.notifStore, nil, log)
	s.service = NewService(NewInMemoryStore(), s.recorder, notifier, log)
}

func (s *InspectionServiceSuite) schedule() Inspection {
	s.T().Helper()
	i, err := s.service.Schedule(context.Background(), ScheduleInput{
		DossierID:   "d1",
		Inspectors:  []string{"M. Essomba", "Mme Ndongo"},
		Location:    "Douala",
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Responsible: "Mme Ndongo",
	})
	s.Require().NoError(err)
	return i
}

func (s *InspectionServiceSuite) TestSchedule() {
	ctx := context.Background()

	s.Run("new inspection starts pending and is audited", func() {
		i := s.schedule()
		s.Equal(ResultPending, i.Result)

		s.Require().Len(s.recorder.events, 1)
		s.Equal("Inspection programmée", s.recorder.events[0].Action)
		s.Equal("Prévue le 15/03/2024 à Douala", s.recorder.events[0].Comment)
	})

	s.Run("requires at least one inspector", func() {
		_, err := s.service.Schedule(ctx, ScheduleInput{
			DossierID: "d1",
			Date:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		})
		s.Equal(domainerrors.CodeValidation, domainerrors.CodeOf(err))
	})

	s.Run("requires a date", func() {
		_, err := s.service.Schedule(ctx, ScheduleInput{
			DossierID:  "d1",
			Inspectors: []string{"M. Essomba"},
		})
		s.Equal(domainerrors.CodeValidation, domainerrors.CodeOf(err))
	})
}

func (s *InspectionServiceSuite) TestRecordResult() {
	ctx := context.Background()

	s.Run("conform outcome is audited with its wording", func() {
		i := s.schedule()
		got, err := s.service.RecordResult(ctx, i.ID, ResultConform, "RAS", "M. Essomba")
		s.Require().NoError(err)
		s.Equal(ResultConform, got.Result)
		s.Equal("RAS", got.Notes)

		last := s.recorder.events[len(s.recorder.events)-1]
		s.Equal("Résultat d'inspection enregistré", last.Action)
		s.Equal("Inspection validée comme conforme", last.Comment)

		count, err := s.notifStore.UnreadCount(ctx)
		s.Require().NoError(err)
		s.Zero(count)
	})

	s.Run("non-conform outcome emits a warning notification", func() {
		i := s.schedule()
		_, err := s.service.RecordResult(ctx, i.ID, ResultNonConform, "écarts majeurs", "M. Essomba")
		s.Require().NoError(err)

		last := s.recorder.events[len(s.recorder.events)-1]
		s.Equal("Inspection validée comme non conforme", last.Comment)

		notifications, err := s.notifStore.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(notifications, 1)
		s.Equal(notification.TypeWarning, notifications[0].Type)
		s.Equal("d1", notifications[0].DossierID)
	})

	s.Run("a recorded result is final", func() {
		i := s.schedule()
		_, err := s.service.RecordResult(ctx, i.ID, ResultConform, "", "M. Essomba")
		s.Require().NoError(err)

		_, err = s.service.RecordResult(ctx, i.ID, ResultNonConform, "", "M. Essomba")
		s.Equal(domainerrors.CodeStateConflict, domainerrors.CodeOf(err))
	})

	s.Run("recording the same result is a no-op", func() {
		i := s.schedule()
		_, err := s.service.RecordResult(ctx, i.ID, ResultConform, "", "M. Essomba")
		s.Require().NoError(err)
		before := len(s.recorder.events)

		got, err := s.service.RecordResult(ctx, i.ID, ResultConform, "ignored", "M. Essomba")
		s.Require().NoError(err)
		s.Empty(got.Notes)
		s.Len(s.recorder.events, before)
	})

	s.Run("unknown inspection is not found", func() {
		_, err := s.service.RecordResult(ctx, "missing", ResultConform, "", "")
		s.Equal(domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	})
}
