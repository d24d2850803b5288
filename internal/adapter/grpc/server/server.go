package server

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/seu-repo/comanda/internal/adapter/grpc/interceptors"
)

// GRPCServer is the ops-facing gRPC endpoint: the standard health
// service for load balancers plus reflection for grpcurl. Business
// traffic stays on the HTTP API.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewGRPCServer(jwtSecret string, log *zap.Logger) *GRPCServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.UnaryMetricsInterceptor(),
			interceptors.UnaryAuthInterceptor(jwtSecret),
		),
	)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)

	// Enable reflection for debugging (e.g. grpcurl)
	reflection.Register(s)

	return &GRPCServer{
		server: s,
		health: healthSrv,
		log:    log,
	}
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.log.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// SetServing flips the health service once the application finishes
// wiring its dependencies.
func (s *GRPCServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
}
