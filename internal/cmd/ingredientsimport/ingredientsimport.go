// Package ingredientsimport loads ingredient fixtures into the database.
package ingredientsimport

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/foodgram-app/foodgram/internal/ingest"
	"github.com/foodgram-app/foodgram/internal/platform/config"
	"github.com/foodgram-app/foodgram/internal/storage/sqlite"
)

// Config holds the importer configuration.
type Config struct {
	DBPath      string `env:"FOODGRAM_DB_PATH" envDefault:"foodgram.db"`
	FixturePath string `env:"FOODGRAM_INGREDIENTS_PATH" envDefault:"data/ingredients.json"`
}

// ParseConfig reads environment variables, then flags, into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath, "ingredient fixture file (.json, .yaml, or .csv)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run imports the fixture file and reports the outcome.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	report, err := ingest.ImportFile(ctx, store, cfg.FixturePath)
	if err != nil {
		return fmt.Errorf("import %s: %w", cfg.FixturePath, err)
	}
	fmt.Fprintf(out, "imported %d ingredients, skipped %d duplicates\n", report.Created, report.Skipped)
	return nil
}
