package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tariffwatch/internal/config"
	"tariffwatch/internal/logger"
	"tariffwatch/internal/metrics"
	"tariffwatch/internal/publisher"
	"tariffwatch/internal/recorder"
	"tariffwatch/internal/scheduler"
	"tariffwatch/internal/source"
)

func main() {
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.L().Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.L().Fatalf("config validation: %v", err)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.File,
		cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays)
	log := logger.WithComponent("main")
	log.Info("tariffwatch starting")

	// Init source
	var src source.Source
	if cfg.Source.File != "" {
		src = source.NewFileSource(cfg.Source.File)
	} else {
		src = source.NewHassSource(cfg.Source.BaseURL, cfg.Source.Token,
			cfg.Source.EntityID, cfg.Proxy, time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
	}
	log.Infof("price source: %s (%s)", src.Name(), cfg.Source.EntityID)

	// Init publisher
	var pub publisher.Publisher
	if cfg.Publish.Enabled {
		pub = publisher.NewHassPublisher(cfg.Source.BaseURL, cfg.Source.Token,
			cfg.Publish.ConsumptionEntity, cfg.Publish.InjectionEntity,
			cfg.Source.EntityID, cfg.Proxy)
	} else {
		pub = publisher.NewNoopPublisher()
	}
	log.Infof("publisher: %s", pub.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Metrics endpoint
	if cfg.Metrics.Addr != "" {
		metrics.Serve(cfg.Metrics.Addr)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, src, pub, rec, cfg.Costs.CostParameters(), cfg.Source.EntityID)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("register refresh task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.RunOnStart {
		log.Info("run_on_start enabled, executing refresh now")
		go sched.RefreshNow()
	}

	log.Info("tariffwatch is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
	log.Info("tariffwatch stopped")
}
