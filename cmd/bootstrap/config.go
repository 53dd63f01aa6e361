package bootstrap

import (
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewPolicy,
	),
)

func NewPolicy(cfg config.Config) (pricing.Policy, error) {
	return config.LoadPolicy(cfg.Booking.PolicyFile)
}
