package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func check(t *testing.T, h *HealthServer, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	t.Helper()
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func TestHealthServer_StartsNotServing(t *testing.T) {
	h := NewHealthServer(time.Second, discardLogger())

	for _, svc := range []string{"", ServiceName} {
		got, err := check(t, h, svc)
		if err != nil {
			t.Fatalf("Check(%q) error: %v", svc, err)
		}
		if got != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Fatalf("Check(%q) = %s, want NOT_SERVING", svc, got)
		}
	}
}

func TestHealthServer_SetServingToggles(t *testing.T) {
	h := NewHealthServer(time.Second, discardLogger())

	h.SetServing(true)
	if got, _ := check(t, h, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %s, want SERVING", got)
	}
	h.SetServing(false)
	if got, _ := check(t, h, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status = %s, want NOT_SERVING", got)
	}
}

func TestHealthServer_UnknownServiceIsNotFound(t *testing.T) {
	h := NewHealthServer(time.Second, discardLogger())

	_, err := check(t, h, "nope.Unknown")
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.NotFound)
	}
}

func TestHealthServer_ServeAndShutdown(t *testing.T) {
	h := NewHealthServer(time.Second, discardLogger())
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen error: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- h.Serve(lis) }()

	h.Shutdown(time.Second)
	select {
	case err := <-errCh:
		if err != nil && err != grpclib.ErrServerStopped {
			t.Fatalf("Serve error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return after Shutdown")
	}
}

func TestDefaultRequestTimeoutInterceptor(t *testing.T) {
	interceptor := DefaultRequestTimeoutInterceptor(50 * time.Millisecond)

	var deadline time.Time
	var hasDeadline bool
	_, err := interceptor(context.Background(), nil, &grpclib.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		deadline, hasDeadline = ctx.Deadline()
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor error: %v", err)
	}
	if !hasDeadline || time.Until(deadline) > 50*time.Millisecond {
		t.Fatalf("deadline = %v (set=%v), want within 50ms", deadline, hasDeadline)
	}

	parent, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	want, _ := parent.Deadline()
	_, _ = interceptor(parent, nil, &grpclib.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	})
	if !deadline.Equal(want) {
		t.Fatalf("deadline = %v, want caller's %v", deadline, want)
	}
}
