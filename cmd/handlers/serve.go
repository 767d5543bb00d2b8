package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autopress/internal/config"
	"autopress/internal/logger"
	"autopress/internal/scheduler"
	"autopress/internal/server"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var (
		port       int
		host       string
		adminEmail string
		adminName  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server with the generation trigger",
		Long: `Start the autopress server.

The server provides:
  • Authenticated generation trigger (GET|POST /api/autopost/run)
  • Read-only diagnostics (GET /api/autopost/status)
  • Article reads and health check endpoints

An external scheduler (cron, systemd timer) normally drives the trigger
endpoint; set autopost.schedule to run the built-in cron loop instead.

Examples:
  # Start server on default port 8080
  autopress serve

  # Start on custom port
  autopress serve --port 3000

  # Seed the admin author on first start
  autopress serve --admin-email admin@example.com --admin-name Admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host, adminEmail, adminName)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "Seed an admin user with this email before serving")
	cmd.Flags().StringVar(&adminName, "admin-name", "Admin", "Name for the seeded admin user")

	return cmd
}

func runServe(ctx context.Context, port int, host, adminEmail, adminName string) error {
	log := logger.Get()

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	if adminEmail != "" {
		if err := st.SeedAdminUser(adminEmail, adminName); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	coordinator, backend := buildCoordinator(st)
	defer backend.Close()

	serverCfg := config.GetServer()
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	secret := config.GetTriggerSecret()
	if secret == "" {
		log.Warn("No trigger secret configured; the run endpoint will reject all callers")
	}

	srv := server.New(st, coordinator, backend, secret, serverCfg)

	var sched *scheduler.Scheduler
	if spec := config.GetAutopost().Schedule; spec != "" {
		sched = scheduler.New(coordinator, spec)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
