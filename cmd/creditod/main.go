package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/usecase"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/infrastructure/config"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/infrastructure/messaging"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/infrastructure/notification"
	pgRepo "github.com/IngenieroJosser/credito-sur-backend-sub000/internal/infrastructure/persistence/postgres"
	pkgkafka "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/kafka"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/observability"
	pkgpostgres "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "creditod",
		Short:        "Microcredit loan engine",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), sweepCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired engine.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	producer *pkgkafka.Producer
	metrics  *observability.Metrics
	metricsH http.Handler

	collect *usecase.CollectPaymentUseCase
	submit  *usecase.SubmitRequestUseCase
	approve *usecase.ApproveRequestUseCase
	reject  *usecase.RejectRequestUseCase
	sweep   *usecase.RunDelinquencySweepUseCase
	getLoan *usecase.GetLoanUseCase

	healthCheck func(ctx context.Context) error
}

func wire(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	_, metrics, metricsHandler, err := observability.InitMetrics(cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pkgpostgres.NewPool(dbCtx, cfg.Postgres())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pkgpostgres.RunMigrations(cfg.Postgres().DSN(), cfg.MigrationsSource); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	producer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})

	uow := pgRepo.NewUnitOfWork(pool)
	notifier := notification.NewSlogNotifier(logger)
	auditor := notification.NewSlogAuditor(logger)
	broadcaster := messaging.NewKafkaBroadcaster(producer)
	pusher := messaging.NewKafkaPushSender(producer)

	return &app{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		producer: producer,
		metrics:  metrics,
		metricsH: metricsHandler,

		collect: usecase.NewCollectPaymentUseCase(uow, notifier, auditor, broadcaster, logger),
		submit:  usecase.NewSubmitRequestUseCase(uow, logger),
		approve: usecase.NewApproveRequestUseCase(uow, notifier, broadcaster, logger),
		reject:  usecase.NewRejectRequestUseCase(uow, notifier, broadcaster, logger),
		sweep:   usecase.NewRunDelinquencySweepUseCase(uow, notifier, pusher, broadcaster, logger),
		getLoan: usecase.NewGetLoanUseCase(uow),

		healthCheck: func(ctx context.Context) error {
			return pkgpostgres.HealthCheck(ctx, pool)
		},
	}, nil
}

func (a *app) close() {
	if err := a.producer.Close(); err != nil {
		a.logger.Warn("kafka producer close failed", "error", err)
	}
	a.pool.Close()
}

func (a *app) runSweep(ctx context.Context) {
	report := a.sweep.Execute(ctx, time.Time{})
	a.metrics.SweepRuns.Add(ctx, 1)
	a.metrics.SweepEntityErrors.Add(ctx, int64(len(report.EntityErrors)))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine with health and metrics endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := wire(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			a.logger.Info("starting", "http_addr", a.cfg.HTTPAddr())

			if a.cfg.Sweep.RunOnStartup {
				a.runSweep(ctx)
			}

			mux := http.NewServeMux()
			mux.Handle("/metrics", a.metricsH)
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				if err := a.healthCheck(r.Context()); err != nil {
					w.WriteHeader(http.StatusServiceUnavailable)
					_ = json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": err.Error()})
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
			})

			server := &http.Server{
				Addr:              a.cfg.HTTPAddr(),
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			// One sweep per day while the service is up.
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					a.runSweep(ctx)
				case err := <-errCh:
					return fmt.Errorf("http server: %w", err)
				case <-ctx.Done():
					a.logger.Info("shutdown signal received")
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
					defer shutdownCancel()
					if err := server.Shutdown(shutdownCtx); err != nil {
						a.logger.Error("http shutdown error", "error", err)
					}
					a.logger.Info("stopped")
					return nil
				}
			}
		},
	}
}

func sweepCmd() *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one delinquency sweep and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := wire(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			asOf := time.Time{}
			if asOfFlag != "" {
				if asOf, err = time.Parse(time.RFC3339, asOfFlag); err != nil {
					return fmt.Errorf("parse --as-of: %w", err)
				}
			}

			report := a.sweep.Execute(ctx, asOf)
			a.metrics.SweepRuns.Add(ctx, 1)
			a.metrics.SweepEntityErrors.Add(ctx, int64(len(report.EntityErrors)))

			out, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(out))

			if report.Unrecoverable() {
				return fmt.Errorf("sweep had %d step failure(s)", len(report.StepFailures))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "reference time (RFC3339), defaults to now")
	return cmd
}
