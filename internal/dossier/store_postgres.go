package dossier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"certitrack/pkg/platform/sentinel"
)

// PostgresStore persists dossiers in PostgreSQL via database/sql.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the dossiers table when missing. Idempotent bootstrap
// without versioned migrations.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dossiers (
			id TEXT PRIMARY KEY,
			operateur_nom TEXT NOT NULL,
			promoteur_nom TEXT NOT NULL DEFAULT '',
			telephone TEXT NOT NULL DEFAULT '',
			type_produit TEXT NOT NULL,
			status TEXT NOT NULL,
			date_transmission TIMESTAMPTZ NOT NULL,
			delai INTEGER NOT NULL DEFAULT 0,
			date_butoir TIMESTAMPTZ NOT NULL,
			parametres_evaluation TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure dossiers schema: %w", err)
	}
	return nil
}

const dossierColumns = `id, operateur_nom, promoteur_nom, telephone, type_produit,
	status, date_transmission, delai, date_butoir, parametres_evaluation,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, d Dossier) error {
	query := `
		INSERT INTO dossiers (` + dossierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.OperatorName, d.PromoterName, d.Phone, d.ProductType,
		string(d.Status), d.TransmissionDate, d.DeadlineDays, d.DueDate,
		pq.Array(d.EvaluationParams), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create dossier: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (Dossier, error) {
	query := `SELECT ` + dossierColumns + ` FROM dossiers WHERE id = $1`
	d, err := scanDossier(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Dossier{}, sentinel.ErrNotFound
		}
		return Dossier{}, fmt.Errorf("find dossier: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) Update(ctx context.Context, d Dossier) error {
	query := `
		UPDATE dossiers SET
			operateur_nom = $2, promoteur_nom = $3, telephone = $4,
			type_produit = $5, status = $6, date_transmission = $7,
			delai = $8, date_butoir = $9, parametres_evaluation = $10,
			updated_at = $11
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		d.ID, d.OperatorName, d.PromoterName, d.Phone, d.ProductType,
		string(d.Status), d.TransmissionDate, d.DeadlineDays, d.DueDate,
		pq.Array(d.EvaluationParams), d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update dossier: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update dossier: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dossiers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dossier: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dossier: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Dossier, error) {
	query := `SELECT ` + dossierColumns + ` FROM dossiers ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dossiers: %w", err)
	}
	defer rows.Close()

	var out []Dossier
	for rows.Next() {
		d, err := scanDossier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dossier: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDossier(row rowScanner) (Dossier, error) {
	var d Dossier
	var status string
	var params pq.StringArray
	err := row.Scan(&d.ID, &d.OperatorName, &d.PromoterName, &d.Phone,
		&d.ProductType, &status, &d.TransmissionDate, &d.DeadlineDays,
		&d.DueDate, &params, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Dossier{}, err
	}
	d.Status = Status(status)
	d.EvaluationParams = []string(params)
	return d, nil
}
