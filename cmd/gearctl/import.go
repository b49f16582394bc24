package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/brand"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/catalogitem"
	redisadapter "github.com/heartmarshall/gearcatalog-backend/internal/adapter/redis"
	"github.com/heartmarshall/gearcatalog-backend/internal/catalogfile"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/importer"
)

// newImportCmd creates the import subcommand.
func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		dryRun  bool
		noFlush bool
	)

	cmd := &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Import a catalog file into PostgreSQL",
		Long: `Import upserts the brands and items of a catalog file in one transaction.
Items are matched by slug. When the search cache is enabled it is flushed
afterwards.

With --dry-run the file is only parsed and validated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start := time.Now()

			cat, err := catalogfile.Load(args[0])
			if err != nil {
				return err
			}
			opts.ui.Success("parsed %s: %d brands, %d items", args[0], len(cat.Brands), len(cat.Items))

			if dryRun {
				return opts.ui.JSON(map[string]any{
					"dry_run": true,
					"brands":  len(cat.Brands),
					"items":   len(cat.Items),
				})
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			svc := importer.NewService(opts.logger,
				brand.New(pool),
				catalogitem.New(pool),
				postgres.NewTxManager(pool, postgres.WithAdvisoryLock(postgres.CatalogImportLock)),
			)

			opts.ui.Step("importing")
			res, err := svc.Import(ctx, cat)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			flushed := 0
			if cfg.Redis.Enabled && !noFlush {
				client, err := redisadapter.NewClient(ctx, cfg.Redis)
				if err != nil {
					return fmt.Errorf("connect to redis: %w", err)
				}
				defer client.Close()

				store := redisadapter.NewStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
				if flushed, err = store.Flush(ctx); err != nil {
					return fmt.Errorf("flush search cache: %w", err)
				}
			}

			if opts.outputJSON {
				return opts.ui.JSON(map[string]any{
					"brands_inserted": res.BrandsInserted,
					"brands_updated":  res.BrandsUpdated,
					"items_inserted":  res.ItemsInserted,
					"items_updated":   res.ItemsUpdated,
					"cache_flushed":   flushed,
				})
			}

			opts.ui.Success("import finished in %s", FormatDuration(time.Since(start)))
			opts.ui.KeyValue("brands inserted", res.BrandsInserted)
			opts.ui.KeyValue("brands updated", res.BrandsUpdated)
			opts.ui.KeyValue("items inserted", res.ItemsInserted)
			opts.ui.KeyValue("items updated", res.ItemsUpdated)
			if cfg.Redis.Enabled && !noFlush {
				opts.ui.KeyValue("cache keys flushed", flushed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate only")
	cmd.Flags().BoolVar(&noFlush, "no-flush", false, "keep the search cache")

	return cmd
}
