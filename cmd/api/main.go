package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-it/helpdesk/internal/api/http"
	"github.com/campus-it/helpdesk/internal/api/http/handlers"
	"github.com/campus-it/helpdesk/internal/auth"
	"github.com/campus-it/helpdesk/internal/config"
	"github.com/campus-it/helpdesk/internal/events"
	"github.com/campus-it/helpdesk/internal/notify"
	"github.com/campus-it/helpdesk/internal/observability"
	"github.com/campus-it/helpdesk/internal/persistence"
	"github.com/campus-it/helpdesk/internal/repository"
	"github.com/campus-it/helpdesk/internal/service"
	"github.com/campus-it/helpdesk/internal/storage"
	"github.com/campus-it/helpdesk/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := notify.NewMailer(cfg.SMTP, cfg.Notification.EmailFrom, logger)
	notificationService := notify.NewNotificationService(dispatcher, mailer, logger)
	worker.StartNotificationWorker(notificationService)

	revoker := auth.NewRedisSessionRevoker(redis.Client)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Revoker:  revoker,
		Logger:   logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		Dispatcher:  dispatcher,
	})
	adminService := service.NewUserAdminService(userRepo, cfg.Auth.BcryptCost)
	attachmentStore := storage.NewAttachmentStore(cfg.Attachment.Dir)

	tokenMgr := auth.NewTokenManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenMgr, revoker, logger)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Attachments:    handlers.NewAttachmentsHandler(attachmentStore),
		Admin:          handlers.NewAdminHandler(adminService),
		Reports:        handlers.NewReportsHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
