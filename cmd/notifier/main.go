package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"compliance_notifier/internal/app"
	"compliance_notifier/internal/infra/config"
	idb "compliance_notifier/internal/infra/database"
	"compliance_notifier/internal/infra/logger"
	"compliance_notifier/internal/infra/mail"
	"compliance_notifier/internal/infra/report"
	"compliance_notifier/internal/infra/scheduler"
	"compliance_notifier/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, BatchSize: %d", cfg.LogLevel, cfg.Environment, cfg.BatchSize)

	db, err := idb.NewWarehouseConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to warehouse: %v", err)
	}
	defer db.Close()
	log.Info("Warehouse connection established successfully.")

	vendorRepo := idb.NewPostgresVendorRepository(db)
	teamRepo := idb.NewPostgresTeamRepository(db)

	sender := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderEmail)
	composer := app.NewComposer(cfg.AttachmentPath, cfg.SenderDomain)
	skipWriter := report.NewExcelSkipLogWriter(cfg.SkipLogPath)

	var opsNotifier app.SummaryNotifier
	if cfg.TelegramToken != "" && cfg.OpsChatID != 0 {
		tg, err := telegram.New(cfg.TelegramToken, cfg.OpsChatID, false)
		if err != nil {
			log.Fatalf("FATAL: Could not create ops Telegram notifier: %v", err)
		}
		opsNotifier = tg
		log.Info("Ops summary notifier initialized.")
	}

	service := app.NewNotificationService(
		vendorRepo, teamRepo, sender, composer, skipWriter, opsNotifier,
		log, cfg.BatchSize, cfg.BatchPause,
	)

	if cfg.RunSchedule == "" {
		runReport, err := service.Run(context.Background())
		if runReport != nil {
			fmt.Println(runReport.Summary())
		}
		if err != nil {
			log.Fatalf("FATAL: Notification run aborted: %v", err)
		}
		return
	}

	notifScheduler := scheduler.NewNotificationScheduler(service, log, cfg.RunSchedule)
	if err := notifScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start notification scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	notifScheduler.Stop()
	log.Info("Application shut down gracefully.")
}
