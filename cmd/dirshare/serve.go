package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dirshare"
	"dirshare/config"
	dshttp "dirshare/http"
	"dirshare/session"
	"dirshare/thumb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server from a config file",
	Long: `Start the dirshare HTTP server with every share, credential and
feature toggle taken from the config file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if len(cfg.Routes) == 0 {
		return fmt.Errorf("no routes configured; add [[routes]] entries or use the dir command")
	}

	setupLogging(cfg.Log)
	return runServer(cmd.Context(), cfg)
}

// runServer wires the registry, session store and handler together and
// serves until SIGINT or SIGTERM.
func runServer(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	builder := dirshare.NewRegistryBuilder()
	for _, rc := range cfg.Routes {
		builder.Add(rc.Label, rc.Path)
	}
	registry, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build route registry: %w", err)
	}
	for _, rt := range registry.Routes() {
		slog.Info("sharing directory", "label", rt.Label, "path", rt.Root)
	}

	ttl, err := cfg.Session.TTLDuration()
	if err != nil {
		return err
	}
	cleanupEvery, err := cfg.Session.CleanupIntervalDuration()
	if err != nil {
		return err
	}

	store, err := session.Connect(ctx, session.Config{
		Backend: cfg.Session.Backend,
		DSN:     cfg.Session.DSN,
		TTL:     ttl,
	})
	if err != nil {
		return fmt.Errorf("connect session store: %w", err)
	}
	defer func() { _ = store.Close() }()
	slog.Info("session store ready", "backend", cfg.Session.Backend, "ttl", ttl)

	go session.RunCleanup(ctx, store, cleanupEvery, func(removed int64, err error) {
		if err != nil {
			slog.Warn("session cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Debug("session cleanup", "removed", removed)
		}
	})

	var thumbs *thumb.Cache
	if cfg.Thumbnails.Enabled {
		thumbs = thumb.New(nil, cfg.Thumbnails.DPI, cfg.Thumbnails.MaxSize)
	}

	handler := dshttp.NewHandler(&dshttp.HandlerConfig{
		Registry: registry,
		Auth: dirshare.AuthConfig{
			Username:      cfg.Auth.Username,
			Password:      cfg.Auth.Password,
			Scheme:        dirshare.AuthScheme(cfg.Auth.Scheme),
			AllowLoopback: cfg.Auth.AllowLoopback,
		},
		Uploads: dshttp.UploadConfig{
			Enabled:   cfg.Uploads.Enabled,
			MaxMemory: cfg.Uploads.MaxMemory,
		},
		Listing: dshttp.ListingConfig{
			ShowPaths: cfg.Listing.ShowPaths,
			Force:     cfg.Listing.Force,
		},
		WebDAV: cfg.WebDAV.Enabled,
		CORS: dshttp.CORSConfig{
			Enabled:          cfg.CORS.Enabled,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposedHeaders:   cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
	}, session.NewManager(store, cfg.Session.SecureCookies), thumbs)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", server.Addr, "tls", cfg.Server.TLSEnabled())
	if cfg.Server.TLSEnabled() {
		err = server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
