// Package server provides the HTTP REST API for the inspection report service.
package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/sitevision/internal/db"
	"github.com/jonathan/sitevision/internal/types"
)

// Store is the persistence surface the server needs. Both the Postgres
// and the local SQLite stores satisfy it, so handlers never know which
// one they are talking to.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetUserRole(ctx context.Context, id uuid.UUID, role string) error
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context) ([]db.User, error)

	SaveReport(ctx context.Context, userID uuid.UUID, report *types.Report) (uuid.UUID, error)
	GetReport(ctx context.Context, id uuid.UUID) (*db.ReportRecord, error)
	ListReports(ctx context.Context, userID uuid.UUID, includeAll bool) ([]db.ReportSummary, error)
	DeleteReport(ctx context.Context, id, userID uuid.UUID, includeAll bool) error

	Close() error
}

var (
	_ Store = (*db.DB)(nil)
	_ Store = (*db.Local)(nil)
)
