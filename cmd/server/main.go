package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/course-tracker/internal/catalog"
	"github.com/Clark-Hu/course-tracker/internal/config"
	"github.com/Clark-Hu/course-tracker/internal/domain"
	httpserver "github.com/Clark-Hu/course-tracker/internal/http"
	"github.com/Clark-Hu/course-tracker/internal/session"
	"github.com/Clark-Hu/course-tracker/internal/store"
	"github.com/Clark-Hu/course-tracker/internal/tracker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[course-tracker] ", log.LstdFlags|log.Lshortfile)

	courses := catalog.DefaultCourses()
	if cfg.CatalogSeedPath != "" {
		courses, err = catalog.LoadFile(cfg.CatalogSeedPath)
		if err != nil {
			log.Fatalf("load catalog: %v", err)
		}
	}

	sessions, closeSessions, err := openSessions(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init sessions: %v", err)
	}
	defer closeSessions()

	delay := tracker.Delay(tracker.NoDelay)
	if cfg.SimulatedLatency {
		delay = tracker.Latency(tracker.DefaultLatencies)
	}

	app, err := tracker.New(tracker.Options{
		Courses:        courses,
		Sessions:       sessions,
		SessionKey:     cfg.SessionKey,
		Notifier:       tracker.LogNotifier{Logger: logger},
		Delay:          delay,
		Logger:         logger,
		BcryptCost:     cfg.BcryptCost,
		SeedSampleUser: cfg.SeedSampleUser,
	})
	if err != nil {
		log.Fatalf("init tracker: %v", err)
	}

	server := httpserver.New(cfg, app, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// openSessions builds the session slot backend selected by SESSION_BACKEND.
func openSessions(ctx context.Context, cfg config.Config, logger *log.Logger) (session.Store, func(), error) {
	ttl := time.Duration(cfg.SessionTTLSecs) * time.Second

	switch cfg.SessionBackend {
	case config.SessionRedis:
		connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st, err := session.NewRedisStore(connCtx, session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisKeyPrefix,
			TTL:      ttl,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Printf("sessions: redis at %s", cfg.RedisAddr)
		return st, func() { _ = st.Close() }, nil

	case config.SessionPostgres:
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st, err := store.Open(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		logger.Println("sessions: postgres")
		return session.NewPostgresStore(st), st.Close, nil

	case config.SessionMemory:
		logger.Println("sessions: in-memory")
		return session.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported session backend %q: %w", cfg.SessionBackend, domain.ErrInvalidInput)
	}
}
