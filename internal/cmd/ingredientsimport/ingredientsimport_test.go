package ingredientsimport

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "foodgram.db" || cfg.FixturePath != "data/ingredients.json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestRunImportsFixture(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "ingredients.json")
	content := `[{"name": "мука", "measurement_unit": "г"}, {"name": "мука", "measurement_unit": "г"}]`
	if err := os.WriteFile(fixture, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := Config{DBPath: filepath.Join(dir, "test.db"), FixturePath: fixture}
	var out strings.Builder
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "imported 1 ingredients, skipped 1 duplicates") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunMissingFixture(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "test.db"), FixturePath: "missing.json"}
	var out strings.Builder
	if err := Run(context.Background(), cfg, &out); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}
