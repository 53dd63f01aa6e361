package components

import (
	"rental-engine/internal/handler"
	"rental-engine/internal/handler/api"
	"rental-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewVehicleHandler,
		api.NewLicenseHandler,
		api.NewSessionHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	bookings *api.BookingHandler,
	vehicles *api.VehicleHandler,
	licenses *api.LicenseHandler,
	sessions *api.SessionHandler,
) handler.Handlers {
	return handler.Handlers{
		Vehicles: vehicles,
		Bookings: bookings,
		Licenses: licenses,
		Sessions: sessions,
	}
}
