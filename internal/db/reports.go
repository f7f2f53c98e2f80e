package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/sitevision/internal/types"
)

// SaveReport inserts a new snapshot of the report and returns its id.
// Saves never update prior rows; the snapshot history stays intact.
func (db *DB) SaveReport(ctx context.Context, userID uuid.UUID, report *types.Report) (uuid.UUID, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO reports (id, user_id, title, address, inspector, data)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, userID, report.Title, report.Address, report.Inspector, data,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetReport retrieves one snapshot by id, or (nil, nil) if absent.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*ReportRecord, error) {
	var r ReportRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, address, inspector, data, saved_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Address, &r.Inspector, &r.Data, &r.SavedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &r, nil
}

// ListReports lists snapshots newest first. With includeAll the scope is
// every user's reports (admin listing); otherwise only userID's.
func (db *DB) ListReports(ctx context.Context, userID uuid.UUID, includeAll bool) ([]ReportSummary, error) {
	query := `SELECT id, user_id, title, address, inspector, saved_at
		 FROM reports`
	args := []any{}
	if !includeAll {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY saved_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Address, &r.Inspector, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DeleteReport removes a snapshot. Without includeAll, only rows owned by
// userID are in scope; a miss either way returns ErrNotFound.
func (db *DB) DeleteReport(ctx context.Context, id, userID uuid.UUID, includeAll bool) error {
	query := `DELETE FROM reports WHERE id = $1`
	args := []any{id}
	if !includeAll {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
