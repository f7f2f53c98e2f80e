package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/sitevision/internal/types"
)

// DefaultLocalPath is the SQLite file used when no path is configured.
const DefaultLocalPath = "sitevision.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'inspector',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	address TEXT NOT NULL,
	inspector TEXT NOT NULL DEFAULT '',
	data TEXT NOT NULL,
	saved_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_user_saved ON reports (user_id, saved_at DESC);
`

// Local is the single-file SQLite store. It mirrors the DB API so the
// server can run without a PostgreSQL instance. Timestamps are stored as
// RFC 3339 text for portability.
type Local struct {
	db *sql.DB
}

// OpenLocal opens (or creates) the SQLite database at path and applies
// the schema.
func OpenLocal(path string) (*Local, error) {
	if path == "" {
		path = DefaultLocalPath
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	sqlDB.SetMaxOpenConns(1)

	l := &Local{db: sqlDB}
	if err := l.initialize(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return l, nil
}

func (l *Local) initialize() error {
	if _, err := l.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := l.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database file.
func (l *Local) Close() error {
	return l.db.Close()
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateUser inserts a new user and returns its id.
func (l *Local) CreateUser(ctx context.Context, name, email, passwordHash, role string) (uuid.UUID, error) {
	id := uuid.New()
	now := nowStamp()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), name, email, passwordHash, role, now, now,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

func scanLocalUser(row *sql.Row) (*User, error) {
	var u User
	var id, createdAt, updatedAt string
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", id, err)
	}
	u.CreatedAt = parseStamp(createdAt)
	u.UpdatedAt = parseStamp(updatedAt)
	return &u, nil
}

// GetUserByEmail retrieves a user by email, or (nil, nil) if absent.
func (l *Local) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	)
	u, err := scanLocalUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetUserByID retrieves a user by id, or (nil, nil) if absent.
func (l *Local) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE id = ?`,
		id.String(),
	)
	u, err := scanLocalUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CheckEmailExists reports whether a user with this email exists.
func (l *Local) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateUserPassword replaces a user's password hash.
func (l *Local) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := l.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, nowStamp(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return checkAffected(result)
}

// SetUserRole changes a user's role.
func (l *Local) SetUserRole(ctx context.Context, id uuid.UUID, role string) error {
	result, err := l.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, nowStamp(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return checkAffected(result)
}

// CountUsers returns the total number of accounts.
func (l *Local) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// ListUsers returns all accounts ordered by creation time.
func (l *Local) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var id, createdAt, updatedAt string
		if err := rows.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt user id %q: %w", id, err)
		}
		u.CreatedAt = parseStamp(createdAt)
		u.UpdatedAt = parseStamp(updatedAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// SaveReport inserts a new snapshot of the report and returns its id.
func (l *Local) SaveReport(ctx context.Context, userID uuid.UUID, report *types.Report) (uuid.UUID, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	id := uuid.New()
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, title, address, inspector, data, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), userID.String(), report.Title, report.Address, report.Inspector, string(data), nowStamp(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetReport retrieves one snapshot by id, or (nil, nil) if absent.
func (l *Local) GetReport(ctx context.Context, id uuid.UUID) (*ReportRecord, error) {
	var r ReportRecord
	var rid, userID, data, savedAt string
	err := l.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, address, inspector, data, saved_at
		 FROM reports WHERE id = ?`,
		id.String(),
	).Scan(&rid, &userID, &r.Title, &r.Address, &r.Inspector, &data, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if r.ID, err = uuid.Parse(rid); err != nil {
		return nil, fmt.Errorf("corrupt report id %q: %w", rid, err)
	}
	if r.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("corrupt report owner id %q: %w", userID, err)
	}
	r.Data = json.RawMessage(data)
	r.SavedAt = parseStamp(savedAt)
	return &r, nil
}

// ListReports lists snapshots newest first, scoped as for DB.ListReports.
func (l *Local) ListReports(ctx context.Context, userID uuid.UUID, includeAll bool) ([]ReportSummary, error) {
	query := `SELECT id, user_id, title, address, inspector, saved_at
		 FROM reports`
	args := []any{}
	if !includeAll {
		query += ` WHERE user_id = ?`
		args = append(args, userID.String())
	}
	query += ` ORDER BY saved_at DESC`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSummary
	for rows.Next() {
		var r ReportSummary
		var rid, uid, savedAt string
		if err := rows.Scan(&rid, &uid, &r.Title, &r.Address, &r.Inspector, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if r.ID, err = uuid.Parse(rid); err != nil {
			return nil, fmt.Errorf("corrupt report id %q: %w", rid, err)
		}
		if r.UserID, err = uuid.Parse(uid); err != nil {
			return nil, fmt.Errorf("corrupt report owner id %q: %w", uid, err)
		}
		r.SavedAt = parseStamp(savedAt)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DeleteReport removes a snapshot, scoped as for DB.DeleteReport.
func (l *Local) DeleteReport(ctx context.Context, id, userID uuid.UUID, includeAll bool) error {
	query := `DELETE FROM reports WHERE id = ?`
	args := []any{id.String()}
	if !includeAll {
		query += ` AND user_id = ?`
		args = append(args, userID.String())
	}

	result, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
