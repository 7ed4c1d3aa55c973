// Command dispatchctl is the operator tool for the dispatch service. It runs
// schema migrations, issues bearer tokens for testing and service accounts, and
// prints the transition table and permission catalog the service enforces.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/in/auth"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Failed to execute command: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dispatchctl",
		Short:         "Operator tool for the dispatch service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newTokenCmd(), newLifecycleCmd(), newPermissionsCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(c *cobra.Command, _ []string) error {
				return withMigrator(func(m *migrate.Migrate) error {
					if err := m.Up(); err != nil {
						if errors.Is(err, migrate.ErrNoChange) {
							fmt.Fprintln(c.OutOrStdout(), "No migrations to apply")
							return nil
						}
						return fmt.Errorf("migration up failed: %w", err)
					}
					fmt.Fprintln(c.OutOrStdout(), "Migration up completed successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default: 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				steps := 1
				if len(args) > 0 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}

				return withMigrator(func(m *migrate.Migrate) error {
					if err := m.Steps(-steps); err != nil {
						if errors.Is(err, migrate.ErrNoChange) {
							fmt.Fprintln(c.OutOrStdout(), "No migrations to roll back")
							return nil
						}
						return fmt.Errorf("migration down failed: %w", err)
					}
					fmt.Fprintf(c.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			RunE: func(c *cobra.Command, _ []string) error {
				return withMigrator(func(m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(c.OutOrStdout(), "Current version: no migrations applied yet")
						return nil
					}
					if err != nil {
						return fmt.Errorf("failed to get version: %w", err)
					}

					suffix := ""
					if dirty {
						suffix = " (dirty - migration may have failed)"
					}
					fmt.Fprintf(c.OutOrStdout(), "Current version: %d%s\n", version, suffix)
					return nil
				})
			},
		},
	)

	return migrateCmd
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	config, err := cmd.LoadConfig()
	if err != nil {
		return err
	}

	db, err := postgres.OpenSQL(config.DSN())
	if err != nil {
		return err
	}

	m, err := postgres.NewMigrator(db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	return fn(m)
}

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens",
	}

	var (
		role   string
		tenant string
		user   string
		ttl    time.Duration
	)

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for an actor",
		Example: `  dispatchctl token issue --role operator --tenant 6ba7b810-9dad-11d1-80b4-00c04fd430c8
  dispatchctl token issue --role chofer --tenant <uuid> --user <uuid> --ttl 8h`,
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			return issueToken(c.OutOrStdout(), config, role, tenant, user, ttl)
		},
	}

	issueCmd.Flags().StringVar(&role, "role", "", "actor role, e.g. admin, operator, chofer")
	issueCmd.Flags().StringVar(&tenant, "tenant", "", "tenant UUID")
	issueCmd.Flags().StringVar(&user, "user", "", "user UUID (random when omitted)")
	issueCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = issueCmd.MarkFlagRequired("role")
	_ = issueCmd.MarkFlagRequired("tenant")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

func issueToken(out io.Writer, config cmd.Config, role, tenant, user string, ttl time.Duration) error {
	parsedRole, err := access.ParseRole(role)
	if err != nil {
		return err
	}

	tenantID, err := kernel.UUIDFromString(tenant)
	if err != nil {
		return fmt.Errorf("--tenant: %w", err)
	}

	userID := kernel.NewUUID()
	if user != "" {
		if userID, err = kernel.UUIDFromString(user); err != nil {
			return fmt.Errorf("--user: %w", err)
		}
	}

	actor, err := access.NewActor(userID, tenantID, parsedRole)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokens(config.JWTSecret, config.JWTIssuer)
	if err != nil {
		return err
	}

	token, err := tokens.Issue(actor, ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
