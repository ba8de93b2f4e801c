package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported through the health service alongside the overall "" entry.
const ServiceName = "barberq.Scheduling"

type HealthServer struct {
	srv    *grpclib.Server
	health *health.Server
	log    *slog.Logger
}

func NewHealthServer(requestTimeout time.Duration, log *slog.Logger) *HealthServer {
	if log == nil {
		log = slog.Default()
	}
	srv := grpclib.NewServer(
		grpclib.UnaryInterceptor(DefaultRequestTimeoutInterceptor(requestTimeout)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	h := &HealthServer{
		srv:    srv,
		health: hs,
		log:    log.With(slog.String("component", "grpc.health")),
	}
	h.SetServing(false)
	return h
}

func (h *HealthServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", st)
	h.health.SetServingStatus(ServiceName, st)
}

func (h *HealthServer) Serve(lis net.Listener) error {
	h.log.Info("grpc health server started", slog.String("grpc_addr", lis.Addr().String()))
	return h.srv.Serve(lis)
}

// Shutdown drains in-flight RPCs, forcing a stop once timeout elapses.
func (h *HealthServer) Shutdown(timeout time.Duration) {
	h.log.Info("shutting down grpc server", slog.Duration("timeout", timeout))
	h.health.Shutdown()

	done := make(chan struct{})
	go func() {
		h.srv.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		h.log.Info("grpc server stopped")
	case <-timer.C:
		h.log.Warn("grpc graceful shutdown timed out; forcing stop")
		h.srv.Stop()
	}
}

func DefaultRequestTimeoutInterceptor(timeout time.Duration) grpclib.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpclib.UnaryServerInfo, handler grpclib.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}
