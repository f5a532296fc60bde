package pipeline

import (
	"fmt"

	"github.com/rustyeddy/pnl/config"
	"go.uber.org/zap"
)

// NewLogger builds a zap logger from the log configuration. An empty level
// means info.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = lvl
	}
	return zc.Build()
}
