// Command api-server serves the stockroom catalog and order API.
package main

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	stockroom "github.com/xenking/stockroom/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := stockroom.LoadConfig()
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		lg.Debug("Config loaded",
			zap.String("catalog", cfg.CatalogFile),
			zap.String("currency", cfg.Currency),
			zap.Bool("admin", cfg.AdminAPIKey != ""),
			zap.Int("rate_limit", cfg.RateLimit.Max),
		)
		return stockroom.Run(ctx, lg, m, cfg)
	})
}
