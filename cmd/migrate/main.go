package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"barter-market/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsRoot string
	logger         *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations for the configured DB_DRIVER",
	Long: `Reads the same configuration as the API server (.env, CONFIG_FILE,
environment) and runs the migrations in <dir>/<driver>.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		var err error
		logger, err = zap.NewDevelopment()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsRoot, "dir", "migrations", "migrations root directory")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd, dropCmd)
}

func newMigrate() (*migrate.Migrate, error) {
	db, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	dbURL, err := db.MigrateURL()
	if err != nil {
		return nil, err
	}
	src := "file://" + filepath.ToSlash(filepath.Join(migrationsRoot, db.MigrationsDir()))

	m, err := migrate.New(src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("migration init failed: %w", err)
	}
	m.Log = &migrateLogger{logger: logger.Sugar()}
	return m, nil
}

// withMigrate opens a migrator for the duration of fn.
func withMigrate(fn func(m *migrate.Migrate) error) error {
	m, err := newMigrate()
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("up failed: %w", err)
			}
			logger.Info("migrations: up completed")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [N]",
	Short: "Roll back N migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("down: invalid steps argument %q", args[0])
			}
			steps = n
		}
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("down failed: %w", err)
			}
			logger.Info("migrations: down completed", zap.Int("steps", steps))
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "version: none")
				return nil
			}
			if err != nil {
				return fmt.Errorf("version failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d  dirty: %v\n", v, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force V",
	Short: "Set the migration version without running anything (clears dirty state)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("force: invalid version %q", args[0])
		}
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Force(v); err != nil {
				return fmt.Errorf("force failed: %w", err)
			}
			logger.Info("migrations: forced", zap.Int("version", v))
			return nil
		})
	},
}

var dropYes bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table (development only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dropYes {
			fmt.Fprint(cmd.ErrOrStderr(), "drop will destroy all tables. Type 'yes' to confirm: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
		}
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Drop(); err != nil {
				return fmt.Errorf("drop failed: %w", err)
			}
			logger.Info("migrations: all tables dropped")
			return nil
		})
	},
}

func init() {
	dropCmd.Flags().BoolVar(&dropYes, "yes", false, "skip the confirmation prompt")
}

type migrateLogger struct {
	logger *zap.SugaredLogger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l *migrateLogger) Verbose() bool { return false }
