package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-bridge/internal/api/http"
	"github.com/spec-kit/helpdesk-bridge/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-bridge/internal/config"
	"github.com/spec-kit/helpdesk-bridge/internal/events"
	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
	"github.com/spec-kit/helpdesk-bridge/internal/observability"
	"github.com/spec-kit/helpdesk-bridge/internal/search"
	"github.com/spec-kit/helpdesk-bridge/internal/service"
	"github.com/spec-kit/helpdesk-bridge/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	helpdeskClient := helpdesk.NewClient(cfg.Helpdesk, metrics, logger)
	federatedClient := search.NewFederatedClient(cfg.Search)
	searchService := search.NewService(federatedClient, helpdeskClient, cfg.Search, metrics, logger)

	commentService := service.NewCommentService(helpdeskClient, cfg.Ticket.CommentFallbacks, logger)
	ticketService := service.NewTicketService(helpdeskClient, searchService, cfg.Ticket, cfg.Helpdesk.ChatbotTag, logger)
	webhookService := service.NewWebhookService(helpdeskClient, commentService, cfg.Helpdesk, logger.Named("webhook"))

	dispatcher := events.NewAsyncDispatcher(logger.Named("dispatcher"), 64, 2)
	worker.StartWebhookWorker(dispatcher, webhookService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, helpdeskClient),
		Tickets:  handlers.NewTicketsHandler(ticketService, commentService),
		Comments: handlers.NewCommentsHandler(commentService),
		Search:   handlers.NewSearchHandler(searchService),
		Webhook:  handlers.NewWebhookHandler(dispatcher, cfg.Helpdesk.WebhookToken, logger),
		Users:    handlers.NewUsersHandler(helpdeskClient),
		Metrics:  metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	dispatcher.Close()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
