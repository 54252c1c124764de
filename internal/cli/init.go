// Package cli provides common CLI initialization utilities shared by the
// budgetpal commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgetpal/internal/config"
	"budgetpal/internal/log"
	"budgetpal/internal/services"
	"budgetpal/internal/storage"
)

// SetupLogger builds the process logger from cfg and sets it as the slog
// default.
func SetupLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment, or from
// path when it is set, applies overrides in order and validates the result.
func LoadAndValidateConfig(path string, overrides ...func(*config.Config)) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Load()
	}

	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenLedger opens the store at the configured path and wraps it in a
// Ledger. The caller owns the ledger and must Close it.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*services.Ledger, error) {
	db, err := storage.Open(ctx, cfg.SQLiteDBPath)
	if err != nil {
		fields := log.NewFields().
			WithOperation(log.OpStartup).
			WithErrorType(log.ErrorTypeDatabase).
			WithError(err)
		logger.WithComponent(log.ComponentStorage).ErrorContext(ctx, "Failed to open database",
			append(fields.ToSlice(), log.FieldPath, cfg.SQLiteDBPath)...)
		return nil, fmt.Errorf("open database %s: %w", cfg.SQLiteDBPath, err)
	}
	logger.DebugContext(ctx, "Database ready", log.FieldPath, db.Path(), log.FieldOperation, log.OpStartup)
	return services.NewLedger(db, logger), nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM. The
// returned stop function releases the signal handler.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
