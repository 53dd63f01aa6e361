package components

import (
	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/config"
	"rental-engine/internal/usecase"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/queries"
	"rental-engine/internal/usecase/session"
	"rental-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
	usecaseSessionModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		pricing.NewDeductibleInsurance,
		fx.As(new(pricing.InsuranceQuoter)),
	),
	booking.NewPricer,
	booking.NewFactory,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewAvailabilityQueries,
		queries.NewBookingQueries,
		queries.NewLicenseQueries,
		queries.NewQuoteQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
		commands.NewInspectionCommands,
		commands.NewLicenseCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseSessionModule = fx.Module("usecase/session",
	fx.Provide(
		NewSessionService,
	),
)

func NewAvailabilityQueries(
	bookings queries.BookingReadStore,
	vehicles queries.VehicleReadStore,
	clk clock.Clock,
	cfg config.Config,
) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(bookings, vehicles, clk, cfg.Booking.AvailabilityDay)
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	factory *booking.Factory,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingCommands(uow, factory, bookingQueries, clk, cfg.Booking.IdempotencyTTL)
}

type sessionParams struct {
	fx.In

	Vehicles        queries.VehicleReadStore
	Users           queries.UserReadStore
	Availability    queries.AvailabilityQueries
	Licenses        queries.LicenseQueries
	BookingCommands commands.BookingCommands
	LicenseCommands commands.LicenseCommands
	PaymentCommands commands.PaymentCommands
	Pricer          *booking.Pricer
	Clock           clock.Clock
	Config          config.Config
}

func NewSessionService(p sessionParams) session.Service {
	return session.NewService(
		session.Deps{
			Vehicles:        p.Vehicles,
			Users:           p.Users,
			Availability:    p.Availability,
			Licenses:        p.Licenses,
			BookingCommands: p.BookingCommands,
			LicenseCommands: p.LicenseCommands,
			PaymentCommands: p.PaymentCommands,
			Pricer:          p.Pricer,
			Clock:           p.Clock,
		},
		session.Config{
			TTL:           p.Config.Booking.SessionTTL,
			CreateTimeout: p.Config.Booking.CreateTimeout,
		},
	)
}
