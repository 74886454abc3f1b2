package notification

import "context"

// Store holds the global, insertion-ordered notification list.
type Store interface {
	Append(ctx context.Context, n Notification) error
	MarkRead(ctx context.Context, id string) error
	List(ctx context.Context) ([]Notification, error)
	UnreadCount(ctx context.Context) (int, error)
}
