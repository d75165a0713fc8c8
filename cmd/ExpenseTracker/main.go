package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/digest"
	emailService "github.com/sebuszqo/ExpenseTracker/internal/email"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Missing configuration, update to start server")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped with an error")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MigrationsEnabled {
		if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
			return err
		}
		log.Info("Database migrations applied")
	}

	dbService, err := database.NewDBService(ctx, database.Options{
		ConnectionString: cfg.DBConnectionString,
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetime:  cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		return err
	}
	defer dbService.Close()

	var sender emailService.EmailSender = emailService.NoopSender{Logger: log}
	if cfg.SMTPConfigured() {
		transport := emailService.NewSMTPTransport(emailService.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
		mailer, err := emailService.NewEmailService(cfg.EmailFrom, transport, log)
		if err != nil {
			return err
		}
		defer mailer.Close()
		sender = mailer
	} else {
		log.Warn("SMTP is not configured, outgoing emails are dropped")
	}

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, sender, log)
	userHandler := user.NewHandler(userService, log)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	authService := auth.NewAuthService(userService, jwtManager, log)
	authHandler := auth.NewHandler(authService)

	transactor := database.NewTransactor(dbService.DB)
	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	financeUserRepo := infrastructure.NewUserRepository(dbService.DB)

	categoryService := application.NewCategoryService(categoryRepo, transactionRepo, transactor, log)
	transactionService := application.NewTransactionService(transactionRepo, categoryRepo, financeUserRepo, transactor, log)
	dashboardService := application.NewDashboardService(transactionRepo, time.Now, log)

	categoryHandler := interfaces.NewCategoryHandler(categoryService, log, interfaces.RespondJSON, interfaces.RespondError)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, log, interfaces.RespondJSON, interfaces.RespondError)
	dashboardHandler := interfaces.NewDashboardHandler(dashboardService, log, interfaces.RespondJSON, interfaces.RespondError)

	if cfg.DigestEnabled {
		digestService := digest.NewService(userService, dashboardService, sender, time.Now, log)
		scheduler, err := digestService.Schedule(cfg.DigestSchedule)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
		log.WithField("schedule", cfg.DigestSchedule).Info("Monthly digest scheduled")
	}

	server := NewServer(log, dbService, cfg.CORSAllowedOrigin, authHandler, authService, userHandler,
		categoryHandler, transactionHandler, dashboardHandler)
	server.RegisterRoutes()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
