package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Nicksok2413/CRM/internal/config"
	"github.com/Nicksok2413/CRM/internal/infra/cache"
	"github.com/Nicksok2413/CRM/internal/infra/database"
	"github.com/Nicksok2413/CRM/internal/infra/http/handlers"
	"github.com/Nicksok2413/CRM/internal/infra/http/middleware"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/infra/mail"
	"github.com/Nicksok2413/CRM/internal/infra/queue"
	"github.com/Nicksok2413/CRM/internal/infra/worker"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatal("database unavailable", "error", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DatabaseURL, log); err != nil {
			log.Fatal("migrations failed", "error", err)
		}
	}

	// Repositories
	serviceRepo := database.NewServiceRepository(db)
	campaignRepo := database.NewCampaignRepository(db)
	leadRepo := database.NewLeadRepository(db)
	contractRepo := database.NewContractRepository(db)
	customerRepo := database.NewCustomerRepository(db)
	userRepo := database.NewUserRepository(db)
	txManager := database.NewTxManager(db)

	var reportCache usecase.ReportCache = cache.Noop{}
	redisCheck := handlers.HealthCheck(nil)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis unavailable", "error", err)
		}
		defer rc.Close()
		reportCache = rc
		redisCheck = rc.Ping
	} else {
		log.Warn("REDIS_URL not set, campaign detail reports are not cached")
	}

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal("rabbitmq unavailable", "error", err)
	}
	defer rabbit.Close()

	// publishing gets its own channel so a consumer failure cannot close it
	publishCh, err := rabbit.Conn.Channel()
	if err != nil {
		log.Fatal("open publish channel", "error", err)
	}
	defer publishCh.Close()
	producer := queue.NewProducer(publishCh)

	mailSender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	notificationWorker := queue.NewWorker(rabbit.Ch, mailSender, log)
	go func() {
		if err := notificationWorker.Start(ctx, queue.QueueName); err != nil {
			log.Error("notification worker exited", "error", err)
		}
	}()

	// Use cases
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, campaignRepo, userRepo, producer, log)
	listLeadsUC := usecase.NewListLeadsUseCase(leadRepo)
	changeStatusUC := usecase.NewChangeLeadStatusUseCase(leadRepo, log)
	checkDuplicatesUC := usecase.NewCheckDuplicatesUseCase(leadRepo)
	activateUC := usecase.NewActivateCustomerUseCase(txManager, leadRepo, contractRepo, campaignRepo, customerRepo, log)
	deactivateUC := usecase.NewDeactivateCustomerUseCase(txManager, leadRepo, customerRepo, log)
	statsUC := usecase.NewCampaignStatsUseCase(campaignRepo)
	detailUC := usecase.NewCampaignDetailUseCase(campaignRepo, leadRepo, customerRepo, reportCache, cfg.ReportCacheTTL, log)
	createServiceUC := usecase.NewCreateServiceUseCase(serviceRepo, log)
	createCampaignUC := usecase.NewCreateCampaignUseCase(campaignRepo, serviceRepo, log)
	createContractUC := usecase.NewCreateContractUseCase(contractRepo, serviceRepo, log)
	archiveUC := usecase.NewArchiveUseCase(serviceRepo, campaignRepo, leadRepo, contractRepo, log)
	purgeUC := usecase.NewPurgeUseCase(serviceRepo, campaignRepo, leadRepo, contractRepo, customerRepo, log)
	notifyExpiringUC := usecase.NewNotifyExpiringContractsUseCase(contractRepo, producer, cfg.ExpirationNoticeDays, log)

	expirationWorker := worker.NewContractExpirationWorker(notifyExpiringUC, log)
	if err := expirationWorker.Start(ctx, cfg.ExpirationSchedule); err != nil {
		log.Fatal("schedule expiration worker", "error", err)
	}
	defer expirationWorker.Stop()

	// Handlers
	limiter := handlers.NewRateLimiter(10, time.Minute)
	defer limiter.Close()

	router := newRouter(routes{
		health: handlers.NewHealthHandler(version, map[string]handlers.HealthCheck{
			"database": db.PingContext,
			"redis":    redisCheck,
			"rabbitmq": func(context.Context) error {
				if !rabbit.Healthy() {
					return errors.New("connection closed")
				}
				return nil
			},
		}),
		leads:      handlers.NewLeadHandler(createLeadUC, listLeadsUC, changeStatusUC, limiter, log),
		validation: handlers.NewValidationHandler(checkDuplicatesUC, log),
		customers:  handlers.NewCustomerHandler(activateUC, deactivateUC, log),
		stats:      handlers.NewStatsHandler(statsUC, detailUC, log),
		catalog:    handlers.NewCatalogHandler(createServiceUC, createCampaignUC, createContractUC, log),
		records:    handlers.NewRecordsHandler(archiveUC, purgeUC, log),
	}, middleware.NewAuthenticator(cfg.JWTSecret), cfg.CORSAllowedOrigins, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}
