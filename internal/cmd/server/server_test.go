package server

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-secret", "s3cret"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "foodgram.db" || cfg.MediaDir != "media" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.TokenTTL != 720*time.Hour {
		t.Fatalf("token ttl = %v", cfg.TokenTTL)
	}
	if cfg.TokenPurgeSpec != "@hourly" {
		t.Fatalf("purge spec = %q", cfg.TokenPurgeSpec)
	}
}

func TestParseConfigFlagsOverride(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-secret", "s3cret",
		"-http-addr", "0.0.0.0:9000",
		"-db-path", "/tmp/x.db",
		"-token-ttl", "1h",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9000" || cfg.DBPath != "/tmp/x.db" || cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseConfigRequiresSecret(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("FOODGRAM_HTTP_ADDR", "127.0.0.1:7000")
	t.Setenv("FOODGRAM_SECRET", "env-secret")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:7000" || cfg.Secret != "env-secret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
