package bootstrap

import (
	"featured-slots/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.PoolsConfig {
			return cfg.Pools
		},
	),
)
