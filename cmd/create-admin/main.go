// Command create-admin seeds an admin account or promotes an existing one,
// writing straight to the configured database.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/config"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	mongorepo "github.com/projectcostai/projectcostai/internal/repository/mongo"
	"github.com/projectcostai/projectcostai/internal/repository/postgres"
	"github.com/projectcostai/projectcostai/migrations"
)

func main() {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Fprint(os.Stderr, "Password (blank to promote an existing user): ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return err
				}
				password = string(raw)
			}
			return run(cmd.Context(), name, email, password)
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name for a new account")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account (prompted when omitted)")
	cmd.MarkFlagRequired("email")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, name, email, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	repo, closeFn, err := openUsers(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == user.RoleAdmin {
			fmt.Printf("%s is already an admin\n", email)
			return nil
		}
		existing.Role = user.RoleAdmin
		if err := repo.Update(ctx, existing); err != nil {
			return fmt.Errorf("promote %s: %w", email, err)
		}
		fmt.Printf("Promoted %s to admin\n", email)
		return nil

	case errors.Is(err, errors.ErrCodeNotFound):
		if len(password) < 6 {
			return fmt.Errorf("a new account needs a password of at least 6 characters")
		}
		hash, err := auth.HashPassword(password, cfg.Auth.BCryptCost)
		if err != nil {
			return err
		}
		u := &user.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         user.RoleAdmin,
			Provider:     user.ProviderLocal,
		}
		if err := repo.Create(ctx, u); err != nil {
			return fmt.Errorf("create %s: %w", email, err)
		}
		fmt.Printf("Created admin %s (%s)\n", email, u.ID)
		return nil

	default:
		return fmt.Errorf("look up %s: %w", email, err)
	}
}

func openUsers(ctx context.Context, cfg *config.Config) (user.Repository, func(), error) {
	if cfg.Database.Driver == "mongo" {
		db, err := mongorepo.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return mongorepo.NewUserRepository(db), func() { mongorepo.Disconnect(context.Background(), db) }, nil
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if _, err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return postgres.NewUserRepository(db), func() { db.Close() }, nil
}
