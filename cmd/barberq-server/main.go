package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"barberq/backend/internal/config"
	"barberq/backend/internal/identity"
	"barberq/backend/internal/service/scheduling"
	"barberq/backend/internal/store"
	"barberq/backend/internal/store/memory"
	"barberq/backend/internal/store/postgres"
	slotcache "barberq/backend/internal/store/redis"
	grpcTransport "barberq/backend/internal/transport/grpc"
	httpTransport "barberq/backend/internal/transport/http"
	"barberq/backend/internal/worker"
)

type stores struct {
	availability store.AvailabilityRepository
	catalog      store.ServiceCatalog
	bookings     store.BookingRepository
	pinger       store.Pinger
	close        func()
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "barberq-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "barberq-server"),
	)
	slog.SetDefault(log)

	if err := run(log, cfg); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfg config.Config) error {
	log.Info(
		"starting",
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("grpc_health_addr", cfg.GRPCHealthAddr),
		slog.String("store_driver", cfg.StoreDriver),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	opts := []scheduling.Option{scheduling.WithLogger(log.With(slog.String("component", "scheduling")))}
	if cfg.RedisAddr != "" {
		cache, err := slotcache.Open(ctx, slotcache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SlotCacheTTL,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := cache.Close(); err != nil {
				log.Warn("redis close failed", slog.Any("err", err))
			}
		}()
		log.Info("slot cache enabled", slog.String("redis_addr", cfg.RedisAddr), slog.Duration("ttl", cfg.SlotCacheTTL))
		opts = append(opts, scheduling.WithSlotCache(cache))
	}

	svc := scheduling.NewService(st.availability, st.catalog, st.bookings, opts...)
	verifier := identity.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpTransport.NewRouter(svc, verifier, log, httpTransport.Options{
			AllowedOrigin:      cfg.AllowedOrigin,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			RequestTimeout:     cfg.HTTPRequestTimeout,
			Pinger:             st.pinger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	health := grpcTransport.NewHealthServer(cfg.GRPCRequestTimeout, log)
	lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCHealthAddr))
		return err
	}

	w, err := worker.New(svc, st.pinger, health, log, worker.Schedules{
		Sweep: cfg.SweepSchedule,
		Probe: cfg.ProbeSchedule,
	})
	if err != nil {
		_ = lis.Close()
		return err
	}
	w.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server started", slog.String("http_addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := health.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")
		shutdown(log, httpServer, health, w, cfg.ShutdownTimeout)
		return nil
	})

	return g.Wait()
}

func openStores(ctx context.Context, log *slog.Logger, cfg config.Config) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn("using in-memory store; data is lost on exit")
		mem := memory.New()
		return stores{availability: mem, catalog: mem, bookings: mem, pinger: mem, close: func() {}}, nil
	}

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		return stores{}, err
	}
	closeDB := func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}

	if cfg.AutoMigrate {
		version, err := postgres.Migrate(ctx, db)
		if err != nil {
			closeDB()
			log.Error("database migration failed", slog.Any("err", err))
			return stores{}, err
		}
		log.Info("database migrated", slog.Int64("version", version))
	}

	return stores{
		availability: postgres.NewAvailabilityRepo(db),
		catalog:      postgres.NewServiceRepo(db),
		bookings:     postgres.NewBookingRepo(db),
		pinger:       postgres.NewProbe(db),
		close:        closeDB,
	}, nil
}

func shutdown(log *slog.Logger, httpServer *http.Server, health *grpcTransport.HealthServer, w *worker.Worker, timeout time.Duration) {
	log.Info("shutting down", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	health.SetServing(false)
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed; forcing close", slog.Any("err", err))
		_ = httpServer.Close()
	} else {
		log.Info("http server stopped")
	}
	w.Stop(ctx)
	health.Shutdown(timeout)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
