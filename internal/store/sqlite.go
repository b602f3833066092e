package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "flowmind-engine/internal/errors"
	"flowmind-engine/internal/models"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal creates a new SQLite-backed evaluation journal.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		strategy_name TEXT,
		legs TEXT NOT NULL,
		spot REAL NOT NULL,
		implied_volatility REAL NOT NULL,
		risk_free_rate REAL NOT NULL,
		as_of DATETIME NOT NULL,
		summary TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_created_at
		ON evaluations(created_at);
	CREATE INDEX IF NOT EXISTS idx_evaluations_strategy_name
		ON evaluations(strategy_name);
	`
	_, err := j.db.Exec(schema)
	return err
}

// SaveEvaluation persists one evaluation result and returns its id.
func (j *SQLiteJournal) SaveEvaluation(ctx context.Context, result *models.StrategyResult) (int64, error) {
	legs, err := json.Marshal(result.Strategy.Legs)
	if err != nil {
		return 0, apperrors.NewStoreError("save", "marshalling legs", err)
	}
	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return 0, apperrors.NewStoreError("save", "marshalling summary", err)
	}

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO evaluations
			(created_at, strategy_name, legs, spot, implied_volatility, risk_free_rate, as_of, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(),
		result.Strategy.Name,
		string(legs),
		result.Market.SpotPrice,
		result.Market.ImpliedVolatility,
		result.Market.RiskFreeRate,
		result.Market.AsOf.UTC(),
		string(summary),
	)
	if err != nil {
		return 0, apperrors.NewStoreError("save", "inserting evaluation", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStoreError("save", "reading insert id", err)
	}
	return id, nil
}

// ListEvaluations returns the most recent evaluations, newest first.
func (j *SQLiteJournal) ListEvaluations(ctx context.Context, limit int) ([]EvaluationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, created_at, strategy_name, legs, spot, implied_volatility, risk_free_rate, as_of, summary
		FROM evaluations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStoreError("list", "querying evaluations", err)
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		rec, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list", "iterating rows", err)
	}
	return records, nil
}

// GetEvaluation returns a single evaluation by id.
func (j *SQLiteJournal) GetEvaluation(ctx context.Context, id int64) (*EvaluationRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, created_at, strategy_name, legs, spot, implied_volatility, risk_free_rate, as_of, summary
		FROM evaluations
		WHERE id = ?`, id)

	rec, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "evaluation %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvaluation(row rowScanner) (EvaluationRecord, error) {
	var (
		rec      EvaluationRecord
		legsJSON string
		sumJSON  string
	)
	err := row.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.Strategy.Name,
		&legsJSON,
		&rec.Market.SpotPrice,
		&rec.Market.ImpliedVolatility,
		&rec.Market.RiskFreeRate,
		&rec.Market.AsOf,
		&sumJSON,
	)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, apperrors.NewStoreError("scan", "scanning evaluation row", err)
	}
	if err := json.Unmarshal([]byte(legsJSON), &rec.Strategy.Legs); err != nil {
		return rec, apperrors.NewStoreError("scan", "unmarshalling legs", err)
	}
	if err := json.Unmarshal([]byte(sumJSON), &rec.Summary); err != nil {
		return rec, apperrors.NewStoreError("scan", "unmarshalling summary", err)
	}
	return rec, nil
}
