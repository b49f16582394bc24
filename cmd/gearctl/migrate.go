package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres"
)

// newMigrateCmd creates the migrate subcommand.
func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	withMigrator := func(run func(cmd *cobra.Command, m *postgres.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			m, err := postgres.NewMigrator(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("open migrator: %w", err)
			}
			defer m.Close()
			return run(cmd, m)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			applied, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			if opts.outputJSON {
				return opts.ui.JSON(map[string]any{"applied": migrationsJSON(applied)})
			}
			if len(applied) == 0 {
				opts.ui.Info("database is up to date")
				return nil
			}
			for _, mig := range applied {
				opts.ui.Success("applied %d %s (%s)", mig.Version, filepath.Base(mig.Path), FormatDuration(mig.Duration))
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			mig, err := m.Down(cmd.Context())
			if err != nil {
				return err
			}
			if opts.outputJSON {
				return opts.ui.JSON(map[string]any{"rolled_back": migrationsJSON([]postgres.Migration{mig})[0]})
			}
			opts.ui.Success("rolled back %d %s", mig.Version, filepath.Base(mig.Path))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the state of every migration",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			all, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			if opts.outputJSON {
				return opts.ui.JSON(map[string]any{"migrations": migrationsJSON(all)})
			}

			rows := make([][]string, 0, len(all))
			for _, mig := range all {
				state, at := "pending", "-"
				if mig.Applied {
					state = "applied"
					at = mig.AppliedAt.Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{strconv.FormatInt(mig.Version, 10), filepath.Base(mig.Path), state, at})
			}
			opts.ui.Table([]string{"Version", "File", "State", "Applied at"}, rows)
			return nil
		}),
	})

	return cmd
}

type migrationJSON struct {
	Version   int64  `json:"version"`
	File      string `json:"file"`
	Applied   bool   `json:"applied"`
	AppliedAt string `json:"applied_at,omitempty"`
}

func migrationsJSON(migs []postgres.Migration) []migrationJSON {
	out := make([]migrationJSON, 0, len(migs))
	for _, m := range migs {
		mj := migrationJSON{Version: m.Version, File: filepath.Base(m.Path), Applied: m.Applied}
		if m.Applied && !m.AppliedAt.IsZero() {
			mj.AppliedAt = m.AppliedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		out = append(out, mj)
	}
	return out
}
