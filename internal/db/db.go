// Package db provides PostgreSQL persistence for completed analysis reports.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daniel/resume-sentinel/internal/types"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// AnalysisRecord is one stored analysis row. Report holds the full
// AnalysisResponse as JSON.
type AnalysisRecord struct {
	RequestID    string          `json:"request_id"`
	FileName     string          `json:"file_name"`
	SHA256       string          `json:"sha256"`
	OverallScore int             `json:"overall_score"`
	Report       json.RawMessage `json:"report"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the analyses table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			request_id    TEXT PRIMARY KEY,
			file_name     TEXT NOT NULL,
			sha256        TEXT NOT NULL,
			overall_score INT NOT NULL,
			report        JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveAnalysis stores a completed analysis keyed by its request ID.
func (db *DB) SaveAnalysis(ctx context.Context, filename, sha256 string, resp *types.AnalysisResponse) error {
	report, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (request_id, file_name, sha256, overall_score, report)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (request_id) DO UPDATE SET report = $5, overall_score = $4`,
		resp.RequestID, filename, sha256, resp.Aggregated.OverallScore, report,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", resp.RequestID, err)
	}
	return nil
}

// GetAnalysis retrieves a stored analysis by request ID. Returns nil when
// not found.
func (db *DB) GetAnalysis(ctx context.Context, requestID string) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	err := db.pool.QueryRow(ctx,
		`SELECT request_id, file_name, sha256, overall_score, report, created_at
		 FROM analyses WHERE request_id = $1`,
		requestID,
	).Scan(&rec.RequestID, &rec.FileName, &rec.SHA256, &rec.OverallScore, &rec.Report, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", requestID, err)
	}
	return &rec, nil
}

// ListAnalyses retrieves recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT request_id, file_name, sha256, overall_score, report, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		if err := rows.Scan(&rec.RequestID, &rec.FileName, &rec.SHA256, &rec.OverallScore, &rec.Report, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
