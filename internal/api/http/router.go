package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/helpdesk-bridge/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-bridge/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Comments *handlers.CommentsHandler
	Search   *handlers.SearchHandler
	Webhook  *handlers.WebhookHandler
	Users    *handlers.UsersHandler
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/ticket", cfg.Tickets.CreateTicket)
	app.Get("/ticket/:id", cfg.Tickets.GetTicket)
	app.Post("/ticket/:id/solve", cfg.Tickets.SolveTicket)

	app.Post("/ticket/:id/comment", cfg.Comments.AddComment)
	app.Post("/ticket/:id/private-comment", cfg.Comments.AddPrivateComment)
	app.Get("/ticket/:id/comments", cfg.Comments.GetComments)

	app.Post("/search-help-center", cfg.Search.SearchHelpCenter)
	app.Post("/search/federated", cfg.Search.SearchFederated)

	app.Post("/webhook", cfg.Webhook.StatusChanged)

	app.Get("/user/:id", cfg.Users.GetUser)
}
