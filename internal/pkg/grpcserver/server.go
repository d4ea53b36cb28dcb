package grpcserver

import (
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server owns a grpc.Server with the standard health service registered
type Server struct {
	addr   string
	Server *grpc.Server
	Health *health.Server

	mu  sync.Mutex
	lis net.Listener
}

// New creates a server for addr; opts carry interceptors and limits
func New(addr string, opts ...grpc.ServerOption) *Server {
	s := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	return &Server{
		addr:   addr,
		Server: s,
		Health: hs,
	}
}

// MarkServing reports service as SERVING to health checks
func (s *Server) MarkServing(service string) {
	s.Health.SetServingStatus(service, healthpb.HealthCheckResponse_SERVING)
}

// Start listens on the configured address and serves until Stop
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve serves on an existing listener
func (s *Server) Serve(lis net.Listener) error {
	s.mu.Lock()
	s.lis = lis
	s.mu.Unlock()
	return s.Server.Serve(lis)
}

// Stop flips health to NOT_SERVING and drains in-flight calls
func (s *Server) Stop() {
	s.Health.Shutdown()
	s.Server.GracefulStop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
