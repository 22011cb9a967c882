// tourato-import runs the CSV reconciliation pipelines against the
// configured database: "pins" imports places, "posts" links social posts
// to already-imported pins.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tourato/tourato-api/internal/app/domain/location"
	"github.com/tourato/tourato-api/internal/app/domain/pin"
	"github.com/tourato/tourato-api/internal/app/domain/social"
	"github.com/tourato/tourato-api/internal/app/importer"
	"github.com/tourato/tourato-api/internal/app/observability/metrics"
	database "github.com/tourato/tourato-api/internal/db"
	"github.com/tourato/tourato-api/internal/pkg/config"
	"github.com/tourato/tourato-api/internal/pkg/geocode"
	applogger "github.com/tourato/tourato-api/pkg/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tourato-import",
		Short:        "Batch CSV imports for pins and social posts",
		SilenceUsage: true,
	}
	root.AddCommand(newPinsCmd(), newPostsCmd())
	return root
}

type cliOptions struct {
	limit          int
	reverseGeocode bool
}

func newPinsCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "pins <csv-file>",
		Short: "Import pins from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				imp := importer.NewPinImporter(
					d.locations, d.pins, d.geocoder, d.cfg.Import, d.logger, os.Stdout)
				sum, err := imp.Run(ctx, args[0], importer.Options{
					Limit:          opts.limit,
					ReverseGeocode: opts.reverseGeocode,
				})
				if err != nil {
					return err
				}
				m := metrics.Get()
				m.PinsImportedTotal.Add(ctx, int64(sum.Created))
				m.PinsSkippedTotal.Add(ctx, int64(sum.Skipped))
				m.GeocodeLookupsTotal.Add(ctx, d.geocoder.Lookups())
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Limit number of records to import")
	cmd.Flags().BoolVar(&opts.reverseGeocode, "reverse-geocode", false, "Use Nominatim to reverse geocode coordinates")
	return cmd
}

func newPostsCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "posts <csv-file>",
		Short: "Import social posts and link them to nearby pins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *deps) error {
				nearest := pin.NewNearestResolver(d.pins, d.cfg.Import, d.logger)
				platforms := social.NewPlatformResolver(
					d.socials, d.cfg.Import.PlatformFuzzyThreshold, d.logger)
				imp := importer.NewPostImporter(
					d.socials, platforms, nearest, d.locations, d.logger, os.Stdout)
				sum, err := imp.Run(ctx, args[0], importer.Options{Limit: opts.limit})
				if err != nil {
					return err
				}
				m := metrics.Get()
				m.PostsImportedTotal.Add(ctx, int64(sum.Created))
				m.PostsSkippedTotal.Add(ctx, int64(sum.Skipped))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Limit number of records to import")
	return cmd
}

// deps bundles everything a pipeline needs, built once per invocation.
type deps struct {
	cfg       *config.Config
	logger    *zap.Logger
	locations *location.Matcher
	pins      *pin.RepositoryImpl
	socials   *social.RepositoryImpl
	geocoder  *geocode.Nominatim
}

func withDeps(ctx context.Context, fn func(context.Context, *deps) error) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := applogger.Init(zapcore.InfoLevel, zap.String("service", "tourato-import")); err != nil {
		return err
	}
	logger := applogger.Log
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	metrics.InitAppMetrics()

	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database configuration: %w", err)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer pool.Close()

	database.WaitForDB(ctx, pool, logger)
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	locRepo := location.NewRepository(pool, logger)
	d := &deps{
		cfg:       cfg,
		logger:    logger,
		locations: location.NewMatcher(locRepo, cfg.Import.FuzzyThreshold, logger),
		pins:      pin.NewRepository(pool, logger),
		socials:   social.NewRepository(pool, logger),
		geocoder:  geocode.NewNominatim(cfg.Import, logger),
	}
	return fn(ctx, d)
}
