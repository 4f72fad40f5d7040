package routes

import (
	"voyago/currency"
	"voyago/ratelim"
	"voyago/tours"

	"github.com/julienschmidt/httprouter"
)

// Deps carries handler dependencies built once in main.
type Deps struct {
	Weather *tours.WeatherService
	Hub     *tours.AvailabilityHub
	Rates   *currency.RateCache
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, deps Deps) {
	AddAuthRoutes(router, rl)
	AddTourRoutes(router, rl, deps.Weather, deps.Hub)
	AddReviewRoutes(router, rl)
	AddBookingRoutes(router, rl)
	AddCartRoutes(router, rl)
	AddPaymentRoutes(router, rl)
	AddInvoiceRoutes(router, rl)
	AddCouponRoutes(router, rl)
	AddNotificationRoutes(router, rl)
	AddCurrencyRoutes(router, rl, deps.Rates)
	AddContentRoutes(router, rl)
	AddAdminRoutes(router, rl)
}
