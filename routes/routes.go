package routes

import (
	"voyago/admin"
	"voyago/auth"
	"voyago/blog"
	"voyago/bookings"
	"voyago/cart"
	"voyago/coupons"
	"voyago/currency"
	"voyago/faq"
	"voyago/invoices"
	"voyago/middleware"
	"voyago/notifications"
	"voyago/payments"
	"voyago/ratelim"
	"voyago/reviews"
	"voyago/tours"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/refresh", rl.Limit(auth.RefreshToken))
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddTourRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, weather *tours.WeatherService, hub *tours.AvailabilityHub) {
	router.GET("/api/tours", rl.Limit(tours.GetTours))
	router.GET("/api/tours/:id", rl.Limit(tours.GetTour))
	router.GET("/api/tours/:id/availability", rl.Limit(tours.GetAvailability))
	router.GET("/api/tours/:id/weather", rl.Limit(tours.WeatherHandler(weather)))
	router.GET("/ws/tours/:id/availability", tours.AvailabilityHandler(hub))

	router.POST("/api/tours", middleware.Authenticate(middleware.RequireAdmin(tours.CreateTour)))
	router.PUT("/api/tours/:id", middleware.Authenticate(middleware.RequireAdmin(tours.EditTour)))
	router.DELETE("/api/tours/:id", middleware.Authenticate(middleware.RequireAdmin(tours.DeleteTour)))
	router.POST("/api/tours/:id/dates", middleware.Authenticate(middleware.RequireAdmin(tours.AddStartDate)))
	router.POST("/api/tours/:id/photos", middleware.Authenticate(middleware.RequireAdmin(tours.UploadTourPhotos)))

	router.GET("/api/tours/:id/reviews", rl.Limit(reviews.GetReviews))
	router.POST("/api/tours/:id/reviews", rl.Limit(middleware.Authenticate(reviews.AddReview)))
}

func AddReviewRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.DELETE("/api/reviews/:reviewId", middleware.Authenticate(reviews.DeleteReview))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(bookings.CreateBooking)))
	router.GET("/api/bookings", middleware.Authenticate(bookings.GetMyBookings))
	router.GET("/api/bookings/:id", middleware.Authenticate(bookings.GetBooking))
	router.PUT("/api/bookings/:id/cancel", rl.Limit(middleware.Authenticate(bookings.CancelBooking)))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.DELETE("/api/cart/:tourid", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddPaymentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/payments/process", rl.Limit(middleware.Authenticate(payments.ProcessPayment)))
	router.POST("/api/payments/process-cart", rl.Limit(middleware.Authenticate(payments.ProcessCartCheckout)))
	router.GET("/api/payments", middleware.Authenticate(payments.ListPayments))
}

func AddInvoiceRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/invoices", middleware.Authenticate(invoices.GetMyInvoices))
	router.GET("/api/invoices/:id", middleware.Authenticate(invoices.GetInvoice))
	router.GET("/api/invoices/:id/pdf", rl.Limit(middleware.Authenticate(invoices.PrintInvoice)))
}

func AddCouponRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/coupons/apply", rl.Limit(middleware.Authenticate(coupons.ApplyCoupon)))
}

func AddNotificationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.PUT("/api/notifications/:id/read", middleware.Authenticate(notifications.MarkRead))
}

func AddCurrencyRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, rates *currency.RateCache) {
	router.GET("/api/currency/convert", rl.Limit(currency.ConvertHandler(rates)))
}

func AddContentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/blog", rl.Limit(blog.GetPosts))
	router.GET("/api/blog/:id", rl.Limit(blog.GetPost))
	router.GET("/api/faq", rl.Limit(faq.GetFAQs))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/stats/bookings", middleware.Authenticate(middleware.RequireAdmin(admin.GetBookingStats)))
	router.GET("/api/admin/users", middleware.Authenticate(middleware.RequireAdmin(admin.ListUsers)))

	router.POST("/api/admin/coupons", middleware.Authenticate(middleware.RequireAdmin(coupons.CreateCoupon)))
	router.GET("/api/admin/coupons", middleware.Authenticate(middleware.RequireAdmin(coupons.ListCoupons)))
	router.DELETE("/api/admin/coupons/:code", middleware.Authenticate(middleware.RequireAdmin(coupons.DeactivateCoupon)))

	router.POST("/api/admin/notifications/process", middleware.Authenticate(middleware.RequireAdmin(notifications.ProcessUnsentHandler)))

	router.POST("/api/admin/blog", middleware.Authenticate(middleware.RequireAdmin(blog.CreatePost)))
	router.DELETE("/api/admin/blog/:id", middleware.Authenticate(middleware.RequireAdmin(blog.DeletePost)))
	router.POST("/api/admin/faq", middleware.Authenticate(middleware.RequireAdmin(faq.CreateFAQ)))
	router.DELETE("/api/admin/faq/:id", middleware.Authenticate(middleware.RequireAdmin(faq.DeleteFAQ)))
}
