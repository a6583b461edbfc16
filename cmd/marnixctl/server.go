package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/metrics"
	"github.com/pashioya/marnix13/pkg/server"
	"github.com/pashioya/marnix13/pkg/server/endpoints"
)

const shutdownTimeout = 15 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if p, err := strconv.Atoi(defaultPort()); err == nil {
		return p
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the portal API server",
	Long: `Run the portal API server.

The server requires the environment variables DATABASE_URL and
MARNIX_JWT_SECRET (or SUPABASE_JWT_SECRET).

By default, database migrations are run on startup. Use --no-migrate to skip.

The configuration file is reloaded when it changes on disk or when the
process receives SIGHUP (see "marnixctl configuration apply").`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}
		if config.JWTSecret() == "" {
			fmt.Fprintln(os.Stderr, "MARNIX_JWT_SECRET environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			logging.Info().Msg("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, _, err := openStores(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}
		defer closeDB(database)

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, database, host, port)
		endpoints.RegisterAll(s)

		if err := run(cmd.Context(), s); err != nil {
			logging.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

// run serves s until SIGINT or SIGTERM, reloading the configuration on
// SIGHUP and on file changes, and runs the health monitor when enabled.
func run(parent context.Context, s *server.Server) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.Component("server")
	cfg := s.Config()

	reload := func(next *config.PortalConfig, err error) {
		metrics.RecordConfigReload(err)
		if err != nil {
			log.Error().Err(err).Msg("configuration reload failed, keeping current configuration")
			return
		}
		s.SetConfig(next)
		log.Info().Str("config_file", next.ConfigFilePath()).Msg("configuration reloaded")
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.Addr()).Msg("running server")
		return s.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return s.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		for {
			select {
			case <-hup:
				log.Info().Msg("received SIGHUP")
				reload(config.Reload())
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		if err := config.Watch(gctx, cfg.ConfigFilePath(), reload); err != nil {
			log.Warn().Err(err).Msg("configuration file watch disabled")
		}
		return nil
	})

	if cfg.HealthCheckEnabled {
		g.Go(func() error {
			s.Monitor.Run(gctx)
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
