package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists audit events in PostgreSQL. The table carries no
// UPDATE or DELETE path besides the explicit dossier cleanup.
type PostgresStore struct {
	db    *sql.DB
	clock Clock
}

// Clock lets tests pin timestamps.
type Clock func() time.Time

// PostgresStoreOption configures a PostgresStore instance.
type PostgresStoreOption func(*PostgresStore)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) PostgresStoreOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB, opts ...PostgresStoreOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EnsureSchema creates the audit_events table and its lookup index when
// missing. Idempotent bootstrap without versioned migrations.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id TEXT PRIMARY KEY,
			dossier_id TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			action TEXT NOT NULL,
			responsable TEXT NOT NULL DEFAULT '',
			commentaire TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS audit_events_dossier_idx
			ON audit_events (dossier_id, date)`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	if event.Date.IsZero() {
		event.Date = s.clock()
	}
	query := `
		INSERT INTO audit_events (id, dossier_id, date, action, responsable, commentaire)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.DossierID, event.Date, event.Action, event.Responsible, event.Comment)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByDossier(ctx context.Context, dossierID string) ([]Event, error) {
	query := `
		SELECT id, dossier_id, date, action, responsable, commentaire
		FROM audit_events
		WHERE dossier_id = $1
		ORDER BY date, id
	`
	rows, err := s.db.QueryContext(ctx, query, dossierID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.DossierID, &e.Date, &e.Action, &e.Responsible, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListByDossiers fetches trails for several dossiers in one round trip,
// keyed by dossier id. Used by the list-with-history path.
func (s *PostgresStore) ListByDossiers(ctx context.Context, dossierIDs []string) (map[string][]Event, error) {
	query := `
		SELECT id, dossier_id, date, action, responsable, commentaire
		FROM audit_events
		WHERE dossier_id = ANY($1)
		ORDER BY date, id
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(dossierIDs))
	if err != nil {
		return nil, fmt.Errorf("list audit events batch: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]Event, len(dossierIDs))
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.DossierID, &e.Date, &e.Action, &e.Responsible, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		result[e.DossierID] = append(result[e.DossierID], e)
	}
	return result, rows.Err()
}

// DeleteByDossier removes a dossier's trail as part of explicit cleanup.
func (s *PostgresStore) DeleteByDossier(ctx context.Context, dossierID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM audit_events WHERE dossier_id = $1`, dossierID)
	if err != nil {
		return fmt.Errorf("delete audit events: %w", err)
	}
	return nil
}
