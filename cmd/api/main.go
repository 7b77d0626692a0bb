package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/edsonnoyola12/sara-crm/internal/api/router"
	"github.com/edsonnoyola12/sara-crm/internal/appointments"
	"github.com/edsonnoyola12/sara-crm/internal/calendar"
	appconfig "github.com/edsonnoyola12/sara-crm/internal/config"
	"github.com/edsonnoyola12/sara-crm/internal/dispatch"
	"github.com/edsonnoyola12/sara-crm/internal/leads"
	"github.com/edsonnoyola12/sara-crm/internal/messaging"
	"github.com/edsonnoyola12/sara-crm/internal/observability/metrics"
	"github.com/edsonnoyola12/sara-crm/internal/reminders"
	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sara-crm API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", "timezone", cfg.Timezone)
		loc = time.UTC
	}

	// Stores and shared lease coordinator
	leadStore := leads.NewStore(pool)
	policyStore := reminders.NewPolicyStore(pool)
	apptStore := appointments.NewStore(pool)
	coordinator := dispatch.NewCoordinator()

	// Outbound WhatsApp channel
	if cfg.TwilioAccountSID == "" || cfg.TwilioWhatsAppFrom == "" {
		logger.Warn("twilio not fully configured; outbound sends will fail until it is")
	}
	sender := messaging.NewWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger)

	// External calendars (optional)
	var calSvc calendar.Service
	if cfg.GoogleCredentialsJSON != "" {
		gs, err := calendar.NewGoogleService(ctx, cfg.GoogleCredentialsJSON, logger)
		if err != nil {
			logger.Error("failed to init google calendar", "error", err)
			os.Exit(1)
		}
		calSvc = gs
	} else {
		logger.Warn("google calendar disabled; bookings will not sync events")
	}
	agentParty := calendar.Party{Role: "agent", CalendarID: cfg.AgentCalendarID}
	advisorParty := calendar.Party{Role: "advisor", CalendarID: cfg.AdvisorCalendarID}

	reminderMetrics := metrics.NewReminderMetrics(nil)
	apptMetrics := metrics.NewAppointmentMetrics(nil)

	engine := reminders.NewEngine(leadStore, policyStore, sender, coordinator, loc, logger, reminderMetrics)
	apptService := appointments.NewService(apptStore, calSvc, sender, coordinator, agentParty, advisorParty, logger, apptMetrics)

	routerCfg := &router.Config{
		Logger:              logger,
		LeadsHandler:        leads.NewHandler(leadStore, logger),
		AppointmentsHandler: appointments.NewHandler(apptService, apptStore, logger),
		RemindersHandler:    reminders.NewHandler(policyStore, engine, logger),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.Handler(),
		RateLimitPerSecond:  float64(cfg.RateLimitPerSecond),
		RateLimitBurst:      cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	// Background reminder sweeps
	scheduler := cron.New()
	_, err = scheduler.AddFunc("@every "+cfg.SweepInterval.String(), func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), cfg.SweepInterval)
		defer cancel()
		if _, err := engine.Sweep(sweepCtx); err != nil {
			logger.Error("reminder sweep failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("failed to schedule reminder sweep", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("reminder scheduler started", "interval", cfg.SweepInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	// Stop scheduling and wait for an in-flight sweep to finish so no
	// send is cut off mid-dispatch.
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
