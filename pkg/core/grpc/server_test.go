package grpc

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := DefaultServerConfig()
	cfg.Port = 0
	srv := NewServer(cfg)
	if err := srv.StartAsync(); err != nil {
		t.Fatalf("StartAsync() error = %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

func checkStatus(t *testing.T, addr, service string) (healthpb.HealthCheckResponse_ServingStatus, metadata.MD) {
	t.Helper()

	conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var header metadata.MD
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service}, grpc.Header(&header))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	return resp.GetStatus(), header
}

func TestServer_HealthLifecycle(t *testing.T) {
	srv := startTestServer(t)

	if got, _ := checkStatus(t, srv.Address(), ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("initial status = %v, want NOT_SERVING", got)
	}

	srv.SetServing("glox.Eval", true)

	if got, _ := checkStatus(t, srv.Address(), ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("overall status = %v, want SERVING", got)
	}
	if got, _ := checkStatus(t, srv.Address(), "glox.Eval"); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("service status = %v, want SERVING", got)
	}
}

func TestServer_RequestIDHeader(t *testing.T) {
	srv := startTestServer(t)

	_, header := checkStatus(t, srv.Address(), "")
	if ids := header.Get(RequestIDHeader); len(ids) != 1 || ids[0] == "" {
		t.Errorf("expected a request id header, got %v", ids)
	}
}

func TestServer_Address(t *testing.T) {
	srv := NewServer(ServerConfig{Host: "127.0.0.1", Port: 9999})
	if got := srv.Address(); got != "127.0.0.1:9999" {
		t.Errorf("Address() = %v, want 127.0.0.1:9999", got)
	}
}

func TestGetRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %v, want abc", got)
	}

	md := metadata.Pairs(RequestIDHeader, "from-md")
	ctx = metadata.NewIncomingContext(context.Background(), md)
	if got := GetRequestID(ctx); got != "from-md" {
		t.Errorf("GetRequestID() = %v, want from-md", got)
	}

	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %v, want empty", got)
	}
}
