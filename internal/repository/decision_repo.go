package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"battery_advisor/internal/models"

	"github.com/google/uuid"
)

type DecisionSQLite struct {
	db *sql.DB
}

func NewDecisionSQLite(db *sql.DB) *DecisionSQLite { return &DecisionSQLite{db: db} }

var _ DecisionRepo = (*DecisionSQLite)(nil)

const (
	insertDecisionSQL = `
		INSERT INTO decisions (id, occurred_at, soc, price_eur_kwh, action, reason, source, overridden)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectDecisionCols = `SELECT id, occurred_at, soc, price_eur_kwh, action, reason, source, overridden FROM decisions`

	sqliteTimeLayout = "2006-01-02 15:04:05"
)

// Append inserts a decision record. Empty IDs and zero timestamps are filled in.
func (r *DecisionSQLite) Append(ctx context.Context, rec models.DecisionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	} else {
		rec.OccurredAt = rec.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertDecisionSQL,
		rec.ID,
		rec.OccurredAt.Format(sqliteTimeLayout),
		rec.SoC,
		rec.PriceEURPerKWH,
		string(rec.Action),
		rec.Reason,
		rec.Source,
		rec.Overridden,
	)
	return err
}

// List returns decisions filtered by [from, to] (inclusive) and/or action,
// ordered ascending by time.
func (r *DecisionSQLite) List(ctx context.Context, from, to time.Time, action string) ([]models.DecisionRecord, error) {
	var (
		conds []string
		args  []any
	)

	// Bounds are formatted exactly like Append stores occurred_at, so the
	// comparison is a plain string compare with no driver serialization in
	// between.
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if action = strings.ToUpper(strings.TrimSpace(action)); action != "" {
		conds = append(conds, "action = ?")
		args = append(args, action)
	}

	q := selectDecisionCols
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DecisionRecord, 0, 64)
	for rows.Next() {
		rec, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the most recent decision, or nil when none exist yet.
func (r *DecisionSQLite) Latest(ctx context.Context) (*models.DecisionRecord, error) {
	row := r.db.QueryRowContext(ctx, selectDecisionCols+" ORDER BY occurred_at DESC LIMIT 1")
	rec, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDecision(row rowScanner) (models.DecisionRecord, error) {
	var (
		rec    models.DecisionRecord
		action string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.OccurredAt,
		&rec.SoC,
		&rec.PriceEURPerKWH,
		&action,
		&rec.Reason,
		&rec.Source,
		&rec.Overridden,
	); err != nil {
		return models.DecisionRecord{}, err
	}
	rec.Action = models.Action(action)
	rec.OccurredAt = rec.OccurredAt.UTC()
	return rec, nil
}
