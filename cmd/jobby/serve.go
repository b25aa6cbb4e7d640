package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobby/internal/config"
	"github.com/jonathan/jobby/internal/server"
	"github.com/jonathan/jobby/internal/session"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front end",
		Long: "Start an HTTP server with the login, home, job listing and job detail pages.\n\n" +
			"Environment:\n" + config.Usage(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (default $PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		API:            newAPIClient(cfg),
		Store:          store,
		ListingIdleTTL: cfg.ListingIdleTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Printf("[serve] api=%s sessions=%s strict=%t", cfg.APIBaseURL, cfg.SessionBackend, cfg.StrictPayloads)
	return srv.Start()
}

// newSessionStore builds the configured session backend and its close func.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	cookie := session.CookieOptions{
		Name:   cfg.CookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}

	switch cfg.SessionBackend {
	case config.SessionMemory:
		ms := session.NewMemoryStore(cookie)
		return ms, func() { _ = ms.Close() }, nil
	case config.SessionRedis:
		rs, err := session.NewRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Cookie:   cookie,
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, func() {
			if err := rs.Close(); err != nil {
				log.Printf("[serve] closing redis session store: %v", err)
			}
		}, nil
	default:
		return session.NewCookieStore(cookie), func() {}, nil
	}
}
