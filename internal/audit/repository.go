package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
	CREATE SCHEMA IF NOT EXISTS audit;

	CREATE TABLE IF NOT EXISTS audit.model_runs (
		run_id       UUID PRIMARY KEY,
		command      TEXT NOT NULL,
		model_type   TEXT NOT NULL,
		config_hash  TEXT NOT NULL,
		margin       DOUBLE PRECISION NOT NULL,
		dataset_rows INTEGER NOT NULL DEFAULT 0,
		train_rows   INTEGER NOT NULL DEFAULT 0,
		test_rows    INTEGER NOT NULL DEFAULT 0,
		picks        INTEGER NOT NULL DEFAULT 0,
		metrics      JSONB,
		backtest     JSONB,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_model_runs_created_at ON audit.model_runs (created_at DESC);
`

// Repository handles run audit persistence
// ⭐ SSOT: Audit 데이터 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new audit repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the audit schema and table if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure audit schema: %w", err)
	}
	return nil
}

// SaveRun inserts a run record
func (r *Repository) SaveRun(ctx context.Context, rec *RunRecord) error {
	metricsJSON, err := marshalOptional(rec.Metrics != nil, rec.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	backtestJSON, err := marshalOptional(rec.Backtest != nil, rec.Backtest)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest: %w", err)
	}

	query := `
		INSERT INTO audit.model_runs (
			run_id, command, model_type, config_hash, margin,
			dataset_rows, train_rows, test_rows, picks, metrics, backtest, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		rec.RunID.String(), rec.Command, rec.ModelType, rec.ConfigHash, rec.Margin,
		rec.Rows, rec.TrainRows, rec.TestRows, rec.Picks, metricsJSON, backtestJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves one run by id
func (r *Repository) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	query := `
		SELECT run_id::text, command, model_type, config_hash, margin,
			dataset_rows, train_rows, test_rows, picks, metrics, backtest, created_at
		FROM audit.model_runs
		WHERE run_id = $1
	`

	rec, err := scanRun(r.pool.QueryRow(ctx, query, id.String()))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return rec, nil
}

// ListRuns returns the most recent runs, newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id::text, command, model_type, config_hash, margin,
			dataset_rows, train_rows, test_rows, picks, metrics, backtest, created_at
		FROM audit.model_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

func scanRun(row pgx.Row) (*RunRecord, error) {
	var rec RunRecord
	var runID string
	var metricsJSON, backtestJSON []byte

	err := row.Scan(
		&runID, &rec.Command, &rec.ModelType, &rec.ConfigHash, &rec.Margin,
		&rec.Rows, &rec.TrainRows, &rec.TestRows, &rec.Picks, &metricsJSON, &backtestJSON, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rec.RunID, err = uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("invalid run_id %q: %w", runID, err)
	}
	if metricsJSON != nil {
		if err := json.Unmarshal(metricsJSON, &rec.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
	}
	if backtestJSON != nil {
		if err := json.Unmarshal(backtestJSON, &rec.Backtest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal backtest: %w", err)
		}
	}

	return &rec, nil
}

// marshalOptional returns nil (SQL NULL) when present is false
func marshalOptional(present bool, v interface{}) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}
