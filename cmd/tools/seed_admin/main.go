// Command seed_admin creates the first admin account, or promotes an
// existing account to admin.
//
// Usage:
//
//	go run cmd/tools/seed_admin/main.go
//
// Requires ADMIN_EMAIL and ADMIN_PASSWORD environment variables.
// ADMIN_NAME is optional. The store is chosen the same way the server
// chooses it: DATABASE_URL if set, otherwise SQLITE_PATH or the default
// local database file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jonathan/sitevision/internal/config"
	"github.com/jonathan/sitevision/internal/db"
	"github.com/jonathan/sitevision/internal/server"
	"github.com/jonathan/sitevision/internal/types"
)

func main() {
	_ = godotenv.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ERROR: ADMIN_EMAIL and ADMIN_PASSWORD environment variables must be set")
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "ERROR: ADMIN_PASSWORD must be at least 8 characters")
		os.Exit(1)
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	existing, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to look up %s: %v\n", email, err)
		os.Exit(1)
	}

	if existing != nil {
		if existing.Role == types.RoleAdmin {
			fmt.Printf("%s is already an admin, nothing to do\n", email)
			return
		}
		if err := store.SetUserRole(ctx, existing.ID, types.RoleAdmin); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to promote %s: %v\n", email, err)
			os.Exit(1)
		}
		fmt.Printf("Promoted existing user %s to admin\n", email)
		return
	}

	passwordHash, err := passwordConfig.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	id, err := store.CreateUser(ctx, name, email, passwordHash, types.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to create admin user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created admin user %s (%s)\n", email, id)
}

// openStore mirrors the server's store selection.
func openStore(ctx context.Context) (server.Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		database, err := db.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := database.InitSchema(ctx); err != nil {
			_ = database.Close()
			return nil, err
		}
		return database, nil
	}
	return db.OpenLocal(os.Getenv("SQLITE_PATH"))
}
