package components

import (
	"context"
	"log/slog"

	"rental-engine/internal/infra/notify/kafka"
	"rental-engine/internal/infra/notify/sendgrid"
	"rental-engine/internal/infra/payment/stripe"
	"rental-engine/internal/infra/storage/objectstore"
	"rental-engine/internal/pkg/config"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/jobs"

	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		fx.Annotate(
			NewDocumentStore,
			fx.As(new(commands.DocumentStore)),
		),
		fx.Annotate(
			NewCheckoutGateway,
			fx.As(new(commands.CheckoutGateway)),
		),
		fx.Annotate(
			NewMailer,
			fx.As(new(jobs.Mailer)),
		),
		NewEventPublisher,
	),
)

func NewDocumentStore(cfg config.Config) (*objectstore.Store, error) {
	return objectstore.NewStore(cfg.Storage)
}

func NewCheckoutGateway(cfg config.Config) *stripe.Gateway {
	return stripe.NewGateway(cfg.Stripe, cfg.Server)
}

func NewMailer(cfg config.Config) *sendgrid.Mailer {
	return sendgrid.NewMailer(cfg.SendGrid)
}

// NewEventPublisher falls back to logging events when Kafka is switched off.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (jobs.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		logger.Info("kafka disabled, booking events are logged only")
		return kafka.LogPublisher{}, nil
	}

	publisher, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
