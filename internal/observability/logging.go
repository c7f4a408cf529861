// Package observability provides logger construction for warlord binaries.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/warlord/internal/config"
)

// RootName is the name every warlord logger descends from.
const RootName = "warlord"

// NewLogger creates a structured logger on stderr from the given logging
// configuration. Entries are never sampled; console output colours levels.
// Stack traces are attached to errors only.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a logger named RootName or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Sampling = nil
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named(RootName), nil
}

// NewGameLogger is NewLogger with the save slot and content directory of cfg
// attached to every entry.
//
// Precondition: cfg.Game.SaveID is the slot the process operates on.
func NewGameLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return logger.With(GameFields(cfg.Game)...), nil
}

// GameFields returns the fields identifying a game process.
func GameFields(game config.GameConfig) []zap.Field {
	fields := []zap.Field{zap.String("save", game.SaveID)}
	if game.ContentDir != "" {
		fields = append(fields, zap.String("content_dir", game.ContentDir))
	}
	return fields
}
