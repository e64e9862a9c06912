package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/avelasco/rsvp-api/internal/config"
	"github.com/avelasco/rsvp-api/internal/handlers"
	"github.com/avelasco/rsvp-api/internal/middleware"
	"github.com/avelasco/rsvp-api/internal/migration"
	"github.com/avelasco/rsvp-api/internal/notification"
	"github.com/avelasco/rsvp-api/internal/repository"
	"github.com/avelasco/rsvp-api/internal/routes"
	"github.com/avelasco/rsvp-api/internal/rsvp"
	"github.com/avelasco/rsvp-api/internal/scheduler"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	config    *config.Config
	db        *sql.DB
	logger    zerolog.Logger
	service   rsvp.Service
	scheduler *scheduler.ReminderScheduler
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	gooseAdapter := migration.NewGooseAdapter(logger)
	goose.SetLogger(gooseAdapter)

	// Load configuration.
	cfg := config.Load()

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	migration.RunMigrations(cfg.DatabaseURL, logger)

	// Repositories over the shared connection.
	invitationRepo := repository.NewInvitationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Reminder transport: SMTP when configured, log-only otherwise.
	var sender notification.ReminderSender
	if cfg.Email.SMTPHost != "" {
		smtpSender, err := notification.NewSMTPReminderSender(cfg.Email)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure reminder mailer")
		}
		sender = smtpSender
	} else {
		sender = notification.NewLogSender(logger)
	}

	policy := rsvp.NewReminderPolicy(cfg.Reminder.WindowDays)
	service := rsvp.NewService(invitationRepo, eventRepo, reminderRepo, sender, policy, logger)

	reminderScheduler := scheduler.NewReminderScheduler(service, logger,
		scheduler.WithPollInterval(cfg.Reminder.PollInterval),
		scheduler.WithDailyAt(cfg.Reminder.DailyAt),
	)
	if cfg.Reminder.AutoStart {
		reminderScheduler.Start()
	}

	app := &application{
		config:    cfg,
		db:        db,
		logger:    logger,
		service:   service,
		scheduler: reminderScheduler,
	}

	// Initialize the HTTP router and middleware.
	router := app.initRouter(logger)
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins(cfg.AllowedOrigins),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler, logger)

	logger.Info().Msg("Application terminated.")
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter(logger zerolog.Logger) http.Handler {
	invitationHandler := handlers.NewInvitationHandler(app.service, logger)
	reminderHandler := handlers.NewReminderHandler(app.service, app.scheduler, logger)

	return routes.NewRouter(invitationHandler, reminderHandler)
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler, logger zerolog.Logger) {
	server := &http.Server{
		Addr:    ":" + app.config.ServerPort,
		Handler: handler,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}

	// Stop the reminder scheduler; an in-flight pass finishes first.
	app.scheduler.Stop()
	logger.Info().Msg("Reminder scheduler stopped.")
}
