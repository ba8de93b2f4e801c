package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/service/scheduling"
	"barberq/backend/internal/store"
)

type schedulingService interface {
	SetAvailability(ctx context.Context, providerID string, schedule []scheduling.AvailabilityEntry) error
	GetAvailability(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error)
	ListSlots(ctx context.Context, providerID, serviceID string) ([]domain.Slot, error)
	CreateBooking(ctx context.Context, in scheduling.CreateBookingInput) (domain.Booking, error)
	AddService(ctx context.Context, in scheduling.AddServiceInput) (domain.Service, error)
	ListServices(ctx context.Context, providerID string) ([]domain.Service, error)
	ListProviderBookings(ctx context.Context, providerID string) ([]domain.Booking, error)
}

type principalVerifier interface {
	PrincipalID(authorization string) (string, error)
}

type Options struct {
	AllowedOrigin      string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	// Pinger backs /healthz; nil reports healthy unconditionally.
	Pinger store.Pinger
}

type Server struct {
	svc      schedulingService
	verifier principalVerifier
	log      *slog.Logger
}

func NewRouter(svc schedulingService, verifier principalVerifier, log *slog.Logger, opts Options) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))
	s := &Server{svc: svc, verifier: verifier, log: log}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", slog.Any("panic", recovered), slog.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	}))
	r.Use(requestLogger(log))
	r.Use(cors.New(corsConfig(opts.AllowedOrigin)))
	if opts.RateLimitPerMinute > 0 {
		r.Use(newRateLimiter(opts.RateLimitPerMinute, log).middleware())
	}
	r.Use(requestTimeout(opts.RequestTimeout))

	r.GET("/healthz", healthz(opts.Pinger, log))

	business := r.Group("/business", s.requirePrincipal())
	{
		business.PUT("/availability", s.setAvailability)
		business.POST("/availability", s.setAvailability)
		business.GET("/availability", s.getAvailability)
		business.POST("/services", s.addService)
		business.GET("/bookings", s.listProviderBookings)
	}

	barbers := r.Group("/barbers/:businessId")
	{
		barbers.GET("/services", s.listServices)
		barbers.GET("/slots", s.listSlots)
	}

	r.POST("/bookings", s.requirePrincipal(), s.createBooking)

	return r
}

func corsConfig(origin string) cors.Config {
	if origin == "" {
		origin = "*"
	}
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "*" {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = []string{origin}
	}
	return cfg
}

func healthz(p store.Pinger, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			if err := p.Ping(c.Request.Context()); err != nil {
				log.Warn("health check failed", slog.Any("err", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
