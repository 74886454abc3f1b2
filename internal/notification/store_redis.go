package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"certitrack/pkg/platform/sentinel"
)

const (
	// Redis keys: one hash per notification plus a list preserving
	// insertion order.
	notificationKeyPrefix = "notif:"
	notificationOrderKey  = "notif:order"
)

// RedisStore is a Redis-backed notification store for deployments where
// several instances share the alert feed.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed notification store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Append(ctx context.Context, n Notification) error {
	key := notificationKeyPrefix + n.ID
	ok, err := s.client.HSetNX(ctx, key, "id", n.ID).Result()
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"type":       string(n.Type),
		"titre":      n.Title,
		"message":    n.Message,
		"recipient":  n.Recipient,
		"dossier_id": n.DossierID,
		"lue":        boolField(n.Read),
		"created_at": n.CreatedAt.Format(time.RFC3339Nano),
	})
	pipe.RPush(ctx, notificationOrderKey, n.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

func (s *RedisStore) MarkRead(ctx context.Context, id string) error {
	key := notificationKeyPrefix + id
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if exists == 0 {
		return sentinel.ErrNotFound
	}
	if err := s.client.HSet(ctx, key, "lue", "1").Err(); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Notification, error) {
	ids, err := s.client.LRange(ctx, notificationOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, notificationKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]Notification, 0, len(ids))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		out = append(out, notificationFromFields(ids[i], fields))
	}
	return out, nil
}

func (s *RedisStore) UnreadCount(ctx context.Context) (int, error) {
	ids, err := s.client.LRange(ctx, notificationOrderKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGet(ctx, notificationKeyPrefix+id, "lue")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("unread count: %w", err)
	}

	count := 0
	for _, cmd := range cmds {
		v, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("unread count: %w", err)
		}
		if v == "0" {
			count++
		}
	}
	return count, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func notificationFromFields(id string, fields map[string]string) Notification {
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return Notification{
		ID:        id,
		Type:      Type(fields["type"]),
		Title:     fields["titre"],
		Message:   fields["message"],
		Recipient: fields["recipient"],
		DossierID: fields["dossier_id"],
		Read:      fields["lue"] == "1",
		CreatedAt: createdAt,
	}
}
