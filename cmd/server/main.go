package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"certitrack/internal/audit"
	"certitrack/internal/certificate"
	"certitrack/internal/document"
	"certitrack/internal/dossier"
	"certitrack/internal/feenote"
	"certitrack/internal/inspection"
	"certitrack/internal/notification"
	"certitrack/internal/platform/config"
	"certitrack/internal/platform/httpserver"
	"certitrack/internal/platform/logger"
	"certitrack/internal/platform/metrics"
	platformredis "certitrack/internal/platform/redis"
	"certitrack/internal/stats"
	httptransport "certitrack/internal/transport/http"
)

// main wires stores, services, and the HTTP lifecycle. Business rules live in
// the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	var (
		dossierStore dossier.Store
		auditStore   audit.Store
	)
	switch cfg.StoreBackend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err.Error())
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			log.Error("postgres ping failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		bootCtx := context.Background()
		if err := dossier.EnsureSchema(bootCtx, db); err != nil {
			log.Error("schema bootstrap failed", "error", err.Error())
			os.Exit(1)
		}
		if err := audit.EnsureSchema(bootCtx, db); err != nil {
			log.Error("schema bootstrap failed", "error", err.Error())
			os.Exit(1)
		}
		dossierStore = dossier.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
	default:
		dossierStore = dossier.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
	}

	var notificationStore notification.Store
	if cfg.RedisURL != "" {
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", "error", err.Error())
			os.Exit(1)
		}
		defer client.Close()
		notificationStore = notification.NewRedisStore(client.Client)
	} else {
		notificationStore = notification.NewInMemoryStore()
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var auditOpts []audit.ServiceOption
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err.Error())
			os.Exit(1)
		}
		defer publisher.Close()

		mirror := make(chan audit.Event, cfg.AuditBuffer)
		auditOpts = append(auditOpts, audit.WithMirror(mirror))
		worker := audit.NewWorker(publisher, mirror, log)
		go func() {
			if err := worker.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit mirror worker stopped", "error", err.Error())
			}
		}()
	}

	trail := audit.NewService(auditStore, m, log, auditOpts...)
	notifications := notification.NewService(notificationStore, m, log)
	dossiers := dossier.NewService(dossierStore, trail, m, log,
		dossier.WithNotifier(notifications, cfg.TechnicalLead))
	// Dependent collections keep the in-memory backend; only the case store
	// and the trail are durable.
	documents := document.NewService(document.NewInMemoryStore(), dossiers)
	dossiers.BindCompleteness(documents)
	inspections := inspection.NewService(inspection.NewInMemoryStore(), dossiers, notifications, log)
	certificates := certificate.NewService(certificate.NewInMemoryStore(), dossiers, dossiers, notifications, log)
	feenotes := feenote.NewService(feenote.NewInMemoryStore(), dossiers, notifications, log)
	statistics := stats.NewService(dossiers, documents, inspections, certificates, feenotes)

	handler := httptransport.NewHandler(log, dossiers, documents, inspections, certificates, feenotes, notifications, statistics)
	router := httptransport.NewRouter(handler, log, m, cfg.RequestTimeout)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server starting", "addr", cfg.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
