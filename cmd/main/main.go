package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/staffbook/internal/client"
	"github.com/UnknownOlympus/staffbook/internal/config"
	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/parser"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/UnknownOlympus/staffbook/internal/server"
	"github.com/UnknownOlympus/staffbook/internal/services/employees"
	"github.com/UnknownOlympus/staffbook/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	osFs := afero.NewOsFs()

	backend, closeBackend, err := openBackend(ctx, cfg, osFs, appMetrics)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeBackend()

	var seed []models.Employee
	if cfg.SeedFile != "" {
		if seed, err = repository.LoadSeedFile(osFs, cfg.SeedFile); err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
	}

	employeeRepo := repository.NewEmployeeRepository(logger, backend, appMetrics, cfg.Storage.Key, seed)
	staff := employees.NewStaff(logger, employeeRepo, appMetrics)

	if cfg.RosterFile != "" {
		source := client.NewRosterSource(client.CreateHTTPClient(logger), osFs)
		if err = importRoster(ctx, logger, source, cfg.RosterFile, parser.NewRosterParser(appMetrics), staff); err != nil {
			logger.ErrorContext(ctx, "Roster import failed", sl.Err(err))
		}
	}

	dashboard, err := staff.Dashboard(ctx)
	if err != nil {
		log.Fatalf("Failed to load employees: %v", err)
	}
	logger.InfoContext(ctx, "Employee records loaded",
		"total", dashboard.Stats.Total,
		"active", dashboard.Stats.Active,
		"departments", dashboard.Stats.Departments,
		"average_salary", dashboard.Stats.AverageSalary,
	)

	wgr.Add(1)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, backend, cfg.MetricsPort)
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// openBackend builds the key-value backend selected by the configuration.
func openBackend(
	ctx context.Context,
	cfg *config.Config,
	osFs afero.Fs,
	appMetrics *metrics.Metrics,
) (storage.Backend, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return storage.NewMemoryBackend(), func() {}, nil
	case config.DriverPostgres:
		dtb, err := storage.NewDatabase(ctx,
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		return storage.NewPostgresBackend(dtb, appMetrics), dtb.Close, nil
	default:
		backend, err := storage.NewFileBackend(osFs, cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() {}, nil
	}
}

func importRoster(
	ctx context.Context,
	logger *slog.Logger,
	source *client.RosterSource,
	location string,
	rosterParser parser.RosterParserIface,
	staff *employees.Staff,
) error {
	body, err := source.Open(ctx, location)
	if err != nil {
		return err
	}
	defer body.Close()

	drafts, err := rosterParser.ParseRoster(body)
	if err != nil {
		return fmt.Errorf("failed to parse roster %s: %w", location, err)
	}

	report, err := staff.Import(ctx, drafts)
	if err != nil {
		return err
	}

	for _, rejection := range report.Rejected {
		logger.WarnContext(ctx, "Roster row rejected",
			"row", rejection.Row, "employee", rejection.Name, sl.Fields(rejection.Errors))
	}

	return nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{Key: "", Value: slog.Value{}}
	}
	return a
}
