/*
main.go - hrconsole entry point

COMMANDS:
  serve   Start the HTTP API server
  seed    Reset the database to the demo fixture

STARTUP SEQUENCE (serve):
  1. Load configuration (YAML file or defaults)
  2. Open the SQLite snapshot store
  3. Construct the ledgers from their snapshots
  4. Configure the router and start the server
  5. Graceful shutdown on SIGINT/SIGTERM (30s drain)

EXAMPLES:
  hrconsole serve
  hrconsole serve --config ./hrconsole.yaml
  hrconsole seed --db ./hrconsole.db
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/hr-console/api"
	"github.com/warp/hr-console/attendance"
	"github.com/warp/hr-console/auth"
	"github.com/warp/hr-console/config"
	"github.com/warp/hr-console/directory"
	"github.com/warp/hr-console/leave"
	"github.com/warp/hr-console/schedule"
	"github.com/warp/hr-console/store/sqlite"
)

func main() {
	root := &cobra.Command{
		Use:   "hrconsole",
		Short: "HR console - attendance, leave and shift management",
	}
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			handler, err := buildHandler(cmd.Context(), store, cfg)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:         cfg.Server.ListenAddr,
				Handler:      api.NewRouter(handler),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				log.Printf("Server starting on %s", cfg.Server.ListenAddr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Println("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Println("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config (defaults apply when empty)")
	return cmd
}

func seedCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the database to the demo fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			dir, err := directory.New(ctx, store)
			if err != nil {
				return err
			}
			att, err := attendance.New(ctx, store)
			if err != nil {
				return err
			}
			lv, err := leave.New(ctx, store)
			if err != nil {
				return err
			}
			sch, err := schedule.New(ctx, store)
			if err != nil {
				return err
			}

			if err := api.Seed(ctx, store, dir, att, lv, sch); err != nil {
				return err
			}
			log.Printf("Fixture seeded into %s", dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "hrconsole.db", "SQLite database path")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func buildHandler(ctx context.Context, store *sqlite.Store, cfg *config.Config) (*api.Handler, error) {
	dir, err := directory.New(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}
	att, err := attendance.New(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	lv, err := leave.New(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave ledger: %w", err)
	}
	sch, err := schedule.New(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	authenticator := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	return api.NewHandler(dir, att, lv, sch, authenticator, store), nil
}
