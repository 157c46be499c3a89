package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"github.com/invoicedesk/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

type options struct {
	migrationsPath string
	logLevel       string
	log            *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "InvoiceDesk database migration tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolveMigrationsPath(opts.migrationsPath)
			if err != nil {
				return err
			}
			opts.migrationsPath = path
			opts.log = logger.New(config.LogConfig{
				Level:  opts.logLevel,
				Format: "console",
				Output: "stdout",
			}, "")
			opts.log.Debug("Migration CLI started",
				zap.String("command", cmd.Name()),
				zap.String("migrations_path", opts.migrationsPath),
			)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.migrationsPath, "path", "", "path to the migrations directory (default ./migrations)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		withMigrator(opts, &cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
		}, func(m *migration.Migrator, _ []string) error {
			return m.Up()
		}),
		withMigrator(opts, &cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
		}, func(m *migration.Migrator, _ []string) error {
			return m.Down()
		}),
		withMigrator(opts, &cobra.Command{
			Use:   "step <n>",
			Short: "Apply n migrations, negative n rolls back",
			Args:  cobra.ExactArgs(1),
		}, func(m *migration.Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return m.Steps(n)
		}),
		withMigrator(opts, &cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a specific version",
			Args:  cobra.ExactArgs(1),
		}, func(m *migration.Migrator, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(version))
		}),
		withMigrator(opts, &cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			Args:  cobra.NoArgs,
		}, func(m *migration.Migrator, _ []string) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				opts.log.Info("No migrations applied")
				return nil
			}
			opts.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		}),
		withMigrator(opts, &cobra.Command{
			Use:   "force <version>",
			Short: "Set the recorded version without running migrations",
			Args:  cobra.ExactArgs(1),
		}, func(m *migration.Migrator, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			opts.log.Warn("Forcing migration version", zap.Int("version", version))
			return m.Force(version)
		}),
		newDropCmd(opts),
		newCreateCmd(opts),
		newListCmd(opts),
	)

	return root
}

func newDropCmd(opts *options) *cobra.Command {
	var confirm bool
	cmd := withMigrator(opts, &cobra.Command{
		Use:   "drop",
		Short: "Drop every database object",
		Args:  cobra.NoArgs,
	}, func(m *migration.Migrator, _ []string) error {
		if !confirm {
			return fmt.Errorf("drop cancelled, pass --confirm to drop all database objects")
		}
		return m.Drop()
	})
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm dropping all database objects")
	return cmd
}

func newCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create a new up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(opts.migrationsPath, args[0], description)
			if err != nil {
				return err
			}
			opts.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := migration.ListMigrations(opts.migrationsPath)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				opts.log.Info("No migrations found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// withMigrator attaches a RunE that opens the configured database and runs fn
func withMigrator(opts *options, cmd *cobra.Command, fn func(*migration.Migrator, []string) error) *cobra.Command {
	cmd.RunE = func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		m, err := migration.New(db, opts.migrationsPath, opts.log)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(m, args)
	}
	return cmd
}

// resolveMigrationsPath returns an absolute migrations directory. Without an
// explicit path it tries ./migrations, then the directory two levels above the
// executable.
func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if execPath, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}
