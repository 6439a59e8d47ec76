// Package server wires configuration into the running service.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/foodgram-app/foodgram/internal/api"
	"github.com/foodgram-app/foodgram/internal/auth"
	"github.com/foodgram-app/foodgram/internal/maintenance"
	"github.com/foodgram-app/foodgram/internal/media"
	"github.com/foodgram-app/foodgram/internal/platform/branding"
	"github.com/foodgram-app/foodgram/internal/platform/config"
	"github.com/foodgram-app/foodgram/internal/platform/otel"
	"github.com/foodgram-app/foodgram/internal/storage/sqlite"
	"github.com/foodgram-app/foodgram/internal/web"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server command configuration.
type Config struct {
	HTTPAddr       string        `env:"FOODGRAM_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath         string        `env:"FOODGRAM_DB_PATH" envDefault:"foodgram.db"`
	MediaDir       string        `env:"FOODGRAM_MEDIA_DIR" envDefault:"media"`
	Secret         string        `env:"FOODGRAM_SECRET"`
	FrontendURL    string        `env:"FOODGRAM_FRONTEND_URL" envDefault:"http://localhost:3000"`
	TokenTTL       time.Duration `env:"FOODGRAM_TOKEN_TTL" envDefault:"720h"`
	TokenPurgeSpec string        `env:"FOODGRAM_TOKEN_PURGE_SPEC" envDefault:"@hourly"`
}

// ParseConfig reads environment variables, then flags, into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.MediaDir, "media-dir", cfg.MediaDir, "uploaded media directory")
	fs.StringVar(&cfg.Secret, "secret", cfg.Secret, "token signing and short-link secret")
	fs.StringVar(&cfg.FrontendURL, "frontend-url", cfg.FrontendURL, "frontend origin for short-link redirects")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "access token lifetime")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Secret == "" {
		return Config{}, fmt.Errorf("secret is required (FOODGRAM_SECRET)")
	}
	return cfg, nil
}

// Run assembles the service and serves HTTP until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "foodgram")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	mediaDir, err := media.NewDir(cfg.MediaDir)
	if err != nil {
		return fmt.Errorf("init media storage: %w", err)
	}
	signer, err := auth.NewSigner(cfg.Secret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("init token signer: %w", err)
	}

	apiServer, err := api.NewServer(api.Config{
		Store:       store,
		Signer:      signer,
		Media:       mediaDir,
		LinkSecret:  cfg.Secret,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		return fmt.Errorf("init api server: %w", err)
	}

	scheduler := maintenance.NewScheduler(store)
	if err := scheduler.AddTokenPurge(ctx, cfg.TokenPurgeSpec); err != nil {
		return fmt.Errorf("schedule token purge: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	mux := http.NewServeMux()
	webHandler := web.NewHandler()
	mux.Handle("/technologies", webHandler)
	mux.Handle("/technologies/", webHandler)
	mux.Handle("/", apiServer.Handler())

	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("%s listening on %s", branding.AppName, cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return <-errCh
}
