package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comanda-app/comanda/config"
	"github.com/comanda-app/comanda/database"
	"github.com/comanda-app/comanda/kds"
	"github.com/comanda-app/comanda/mq"
	"github.com/comanda-app/comanda/router"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port        string
	SkipMigrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, kitchen board websocket and change feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&opts.SkipMigrate, "skip-migrate", false, "do not auto-migrate on start")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if !opts.SkipMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	hub := kds.NewHub(utils.InfoLogger)

	// broker opsional; tanpa AMQP_URL feed hanya lewat websocket
	var (
		dispatchPub services.DispatchPublisher
		orderPub    services.OrderPublisher
	)
	if cfg.AMQPURL != "" {
		pub, err := mq.Dial(cfg.AMQPURL)
		if err != nil {
			return fmt.Errorf("connect broker: %w", err)
		}
		defer pub.Close()
		dispatchPub, orderPub = pub, pub
	}

	deps := router.NewDeps(db, cfg, hub, dispatchPub)
	deps.Monitor.Publisher = orderPub
	deps.Monitor.Start()
	defer deps.Monitor.Stop()

	go utils.RunBlacklistJanitor(ctx, time.Hour)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
