package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/persistence/postgres"
)

var errNotPostgres = errors.New("migrations require database.driver=postgres")

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), opts, func(ctx context.Context, m *postgres.Migrator) error {
				return m.Up(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), opts, func(ctx context.Context, m *postgres.Migrator) error {
				return m.Down(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), opts, func(ctx context.Context, m *postgres.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}

				return printStatus(cmd.OutOrStdout(), statuses)
			})
		},
	})

	return cmd
}

func withMigrator(ctx context.Context, opts *rootOptions, fn func(context.Context, *postgres.Migrator) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return errNotPostgres
	}

	logger := newLogger(cfg)

	pg, err := openPostgres(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	migrator, err := postgres.NewMigrator(pg)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	return fn(ctx, migrator)
}

func printStatus(w io.Writer, statuses []postgres.MigrationStatus) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tAPPLIED\tSOURCE")
	for _, st := range statuses {
		fmt.Fprintf(tw, "%d\t%t\t%s\n", st.Version, st.Applied, st.Source)
	}

	return tw.Flush()
}
