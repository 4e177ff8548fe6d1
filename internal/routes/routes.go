package routes

import (
	"github.com/gofiber/fiber/v2"

	"customer-analytics-buddy/internal/controller"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, dashboard controller.DashboardController) {
	app.Get("/metrics/reviewers", dashboard.GetReviewers)
	app.Get("/metrics/returning-customers", dashboard.GetReturningCustomers)
	app.Get("/metrics/order-behavior", dashboard.GetOrderBehavior)
	app.Get("/metrics/discount-users", dashboard.GetDiscountUsers)

	app.Get("/onboarding", dashboard.GetOnboarding)
	app.Put("/onboarding", dashboard.PutOnboarding)
	app.Post("/usage/seen", dashboard.RecordUsage)

	app.Get("/mailchimp/connect", dashboard.MailchimpConnect)
	app.Get("/mailchimp/callback", dashboard.MailchimpCallback)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
