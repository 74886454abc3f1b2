package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	domainerrors "certitrack/pkg/domain-errors"
	"certitrack/pkg/platform/sentinel"
)

type NotificationServiceSuite struct {
	suite.Suite
	service *Service
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
	s.service = NewService(NewInMemoryStore(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *NotificationServiceSuite) TestNotify() {
	ctx := context.Background()

	s.Run("new notification starts unread", func() {
		n, err := s.service.Notify(ctx, Input{
			Type:      TypeWarning,
			Title:     "Inspection non conforme",
			Message:   "Inspection du 15/03/2024 non conforme",
			DossierID: "d1",
		})
		s.Require().NoError(err)
		s.NotEmpty(n.ID)
		s.False(n.Read)
		s.False(n.CreatedAt.IsZero())
	})

	s.Run("empty type defaults to info", func() {
		n, err := s.service.Notify(ctx, Input{Title: "Nouveau dossier"})
		s.Require().NoError(err)
		s.Equal(TypeInfo, n.Type)
	})
}

func (s *NotificationServiceSuite) TestUnreadAccounting() {
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		n, err := s.service.Notify(ctx, Input{Title: title})
		s.Require().NoError(err)
		ids = append(ids, n.ID)
	}

	count, err := s.service.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(3, count)

	s.Require().NoError(s.service.MarkRead(ctx, ids[1]))

	count, err = s.service.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	// Re-reading the same notification changes nothing.
	s.Require().NoError(s.service.MarkRead(ctx, ids[1]))
	count, err = s.service.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	feed, err := s.service.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(feed, 3)
	s.False(feed[0].Read)
	s.True(feed[1].Read)
	s.Equal("a", feed[0].Title)
}

func (s *NotificationServiceSuite) TestMarkReadMissing() {
	err := s.service.MarkRead(context.Background(), "missing")
	s.Equal(domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate append is a conflict", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Append(ctx, Notification{ID: "n1"}))
		assert.ErrorIs(t, store.Append(ctx, Notification{ID: "n1"}), sentinel.ErrConflict)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		store := NewInMemoryStore()
		for _, id := range []string{"n1", "n2", "n3"} {
			require.NoError(t, store.Append(ctx, Notification{ID: id}))
		}
		feed, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, feed, 3)
		assert.Equal(t, "n1", feed[0].ID)
		assert.Equal(t, "n3", feed[2].ID)
	})
}
