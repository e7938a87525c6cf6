package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/alikonainofficial/supabase-file-upload-manager/internal/config"
	"github.com/alikonainofficial/supabase-file-upload-manager/internal/inventory"
	"github.com/alikonainofficial/supabase-file-upload-manager/internal/reconcile"
	"github.com/alikonainofficial/supabase-file-upload-manager/internal/resolver"
	"github.com/alikonainofficial/supabase-file-upload-manager/internal/storage"
	"github.com/alikonainofficial/supabase-file-upload-manager/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "sbreconcile",
		Usage: "Reconcile CSV-declared files against a Supabase storage bucket",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Fetch the bucket inventory, report missing IDs, and offer to resolve them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Path to the CSV file declaring expected record IDs",
					},
					&cli.StringFlag{
						Name:  "bucket",
						Usage: "Storage bucket name",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory path inside the bucket",
					},
					&cli.StringFlag{
						Name:  "ext",
						Usage: "File extension expected per record ID",
					},
					&cli.BoolFlag{
						Name:  "no-input",
						Usage: "Report missing IDs without prompting for a resolution",
					},
				},
				Action: runCheck,
			},
			{
				Name:  "purge-folder",
				Usage: "Delete every file in a bucket folder with one bulk remove call",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bucket",
						Usage: "Storage bucket name",
					},
					&cli.StringFlag{
						Name:     "folder",
						Usage:    "Folder path inside the bucket to purge",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: runPurgeFolder,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

// loadConfig resolves settings from env/.env via config.Load and applies any
// flag overrides for this invocation.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	if c.IsSet("csv") {
		cfg.Reconcile.CSVPath = c.String("csv")
	}
	if c.IsSet("bucket") {
		cfg.Bucket.Name = c.String("bucket")
	}
	if c.IsSet("dir") {
		cfg.Bucket.Dir = c.String("dir")
	}
	if c.IsSet("ext") {
		cfg.Reconcile.FileExtension = c.String("ext")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCheck(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	client, err := storage.NewSupabaseClient(storage.SupabaseConfig{
		URL:    cfg.Supabase.URL,
		Key:    cfg.Supabase.Key,
		Bucket: cfg.Bucket.Name,
	})
	if err != nil {
		return fmt.Errorf("could not construct storage client: %w", err)
	}

	ctx := c.Context
	inv := inventory.Fetch(ctx, client, cfg.Bucket.Dir, cfg.Bucket.PageLimit)

	opts := reconcile.Options{
		FileExtension:          cfg.Reconcile.FileExtension,
		TreatZeroByteAsMissing: cfg.Reconcile.TreatZeroByteAsMissing,
	}
	missing, err := reconcile.MissingIDs(cfg.Reconcile.CSVPath, inv, opts)
	if err != nil {
		// Partial results are still worth reporting.
		logger.Log.Error().Err(err).Msg("error reading CSV file")
	}

	if len(missing) == 0 {
		logger.Log.Info().Msg("all IDs have corresponding files in the bucket")
		return nil
	}

	fmt.Println("IDs with no corresponding file in the bucket:")
	for _, id := range missing {
		fmt.Println(id)
	}
	fmt.Println("missing file count:", len(missing))

	if c.Bool("no-input") {
		return nil
	}

	p := newPrompter(os.Stdin, os.Stdout)
	return resolve(ctx, client, cfg, missing, inv.Len() == 0, p)
}

// resolve drives the interactive menu for a non-empty missing list. An empty
// inventory may just mean the fetch failed, so the destructive database
// cleanup is refused in that case; retrying uploads is still allowed since a
// fresh bucket legitimately starts empty.
func resolve(ctx context.Context, client storage.Client, cfg *config.Config, missing []string, invEmpty bool, p *prompter) error {
	fmt.Println("Choose an option:")
	fmt.Println("1. Retry uploading the missing files.")
	fmt.Println("2. Remove the missing ID data from the database.")
	fmt.Println("3. Do nothing.")

	switch p.line("Enter your choice (1/2/3): ") {
	case "1":
		dir := p.line("Enter the directory path to retry uploading from: ")
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			logger.Log.Error().Str("dir", dir).Msg("invalid directory path")
			return nil
		}
		stats := resolver.UploadMissing(ctx, client, missing, dir, cfg.Bucket.Dir, cfg.Reconcile.FileExtension)
		logger.Log.Info().
			Int("uploaded", stats.Uploaded).
			Int("skipped", stats.Skipped).
			Int("failed", stats.Failed).
			Msg("upload batch finished")
		return nil

	case "2":
		if invEmpty {
			logger.Log.Warn().Msg("bucket inventory is empty (the fetch may have failed), refusing database cleanup")
			return nil
		}
		if table := p.line("Enter the table name: "); table != "" {
			cfg.Database.Table = table
		}
		if column := p.line("Enter the column name: "); column != "" {
			cfg.Database.Column = column
		}
		db, err := resolver.OpenDB(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		return resolver.DeleteMissingRows(ctx, db, cfg.Database, missing)

	default:
		fmt.Println("No retry selected. Exiting.")
		return nil
	}
}

func runPurgeFolder(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	folder := c.String("folder")
	if !c.Bool("yes") {
		p := newPrompter(os.Stdin, os.Stdout)
		if !p.confirm(fmt.Sprintf("Delete ALL files in %s/%s?", cfg.Bucket.Name, folder)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	client, err := storage.NewSupabaseClient(storage.SupabaseConfig{
		URL:    cfg.Supabase.URL,
		Key:    cfg.Supabase.Key,
		Bucket: cfg.Bucket.Name,
	})
	if err != nil {
		return fmt.Errorf("could not construct storage client: %w", err)
	}

	deleted, err := resolver.PurgeFolder(c.Context, client, folder)
	if err != nil {
		return err
	}
	for _, path := range deleted {
		fmt.Println("Deleted:", path)
	}
	return nil
}
