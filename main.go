package main

import (
	"context"
	"log"
	"net/http"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/config"
	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/handlers"
	"github.com/connecta-b2b/connecta-server/pkg/logging"
	"github.com/connecta-b2b/connecta-server/pkg/mail"
	"github.com/connecta-b2b/connecta-server/pkg/middleware"
	"github.com/connecta-b2b/connecta-server/pkg/realtime"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded")
	logger.Sugar().Infof("  Environment: %s", cfg.Env)
	logger.Sugar().Infof("  Database: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	logger.Sugar().Infof("  Redis: %s", cfg.Redis.Addr())
	logger.Sugar().Infof("  Mail relay configured: %v", cfg.Mail.Enabled())

	ctx := context.Background()
	dsn := cfg.Database.ConnectionString()

	if err := database.RunMigrations(dsn, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations: " + logging.SanitizeError(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            dsn,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database: " + logging.SanitizeError(err))
	}
	defer db.Close()

	rdb, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis: " + logging.SanitizeError(err))
	}

	// Outbound mail runs on a Redis-backed queue drained by a background
	// worker for the lifetime of the process.
	dispatcher := mail.NewDispatcher(rdb, mail.NewSMTPSender(&cfg.Mail), logger)
	mailCtx, stopMail := context.WithCancel(ctx)
	defer stopMail()
	go dispatcher.Run(mailCtx)

	hub := realtime.NewHub(logger)

	companyRepo := repositories.NewCompanyRepository(db)
	productRepo := repositories.NewProductRepository(db)
	quoteRepo := repositories.NewQuoteRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	rfqRepo := repositories.NewRFQRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	notificationService := services.NewNotificationService(notificationRepo, hub, logger)
	accountService := services.NewAccountService(companyRepo, logger)
	productService := services.NewProductService(productRepo, logger)
	quoteService := services.NewQuoteService(quoteRepo, productRepo, companyRepo, notificationService, dispatcher, logger)
	cartService := services.NewCartService(quoteRepo, productRepo, companyRepo, notificationService, dispatcher, logger)
	rfqService := services.NewRFQService(rfqRepo, companyRepo, notificationService, dispatcher, logger)
	reviewService := services.NewReviewService(reviewRepo, quoteRepo, notificationService, logger)
	chatService := services.NewChatService(chatRepo, quoteRepo, companyRepo, logger)
	announcementService := services.NewAnnouncementService(announcementRepo, logger)
	adminService := services.NewAdminService(companyRepo, productRepo, rfqRepo, statsRepo, logger)

	// Inbound socket chat flows through the chat service.
	hub.SetDelegate(chatService)

	sessionStore := auth.NewStore(cfg.SessionSecret, cfg.Env != "local" && cfg.Env != "development")
	authMiddleware := auth.NewMiddleware(sessionStore)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAccountsHandler(accountService, sessionStore, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProductsHandler(productService, reviewService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewQuotesHandler(quoteService, reviewService, chatService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCartHandler(cartService, sessionStore, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewRFQsHandler(rfqService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewNotificationsHandler(notificationService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAnnouncementsHandler(announcementService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAdminHandler(adminService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSocketHandler(hub, cfg.SessionSecret, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.Recovery(logger)(middleware.RequestLogger(logger)(mux))

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Sugar().Infof("Starting connecta-server on %s (version: %s)", addr, cfg.Version)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed: " + err.Error())
	}
}
