// Package grpc exposes the settings service over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophsettings/internal/api"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
	"github.com/dmitrijs2005/gophsettings/internal/server/catalog"
	"github.com/dmitrijs2005/gophsettings/internal/server/services"
)

// SettingsService is the business API the handlers delegate to.
type SettingsService interface {
	Get(ctx context.Context, userID string) (*services.SettingsView, error)
	Patch(ctx context.Context, userID string, p services.Patch) (*services.SettingsView, error)
	Capabilities() *catalog.Catalog
}

type GRPCServer struct {
	api.UnimplementedSettingsServiceServer
	address   string
	settings  SettingsService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ss SettingsService, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		settings:  ss,
		jwtSecret: []byte(secretKey),
	}, nil
}

// NewServer builds a *grpc.Server with the interceptor chain and the
// settings service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.requestIDInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	api.RegisterSettingsServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
