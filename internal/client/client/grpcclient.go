package client

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophsettings/internal/api"
	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.SettingsServiceClient
	accessToken string
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewSettingsClient dials endpointURL lazily. A zero timeout leaves call
// deadlines to the caller's context.
func NewSettingsClient(endpointURL, accessToken string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewSettingsServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) GetSettings(ctx context.Context) (*models.Settings, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.GetSettings(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return toSettings(resp), nil
}

func (s *GRPCClient) GetCapabilities(ctx context.Context) (*models.Catalog, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.GetCapabilities(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return toCatalog(resp), nil
}

func (s *GRPCClient) PatchSettings(ctx context.Context, patch *models.Patch) (*models.Settings, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.PatchSettings(ctx, toPatchRequest(patch))
	if err != nil {
		return nil, s.mapError(err)
	}
	return toSettings(resp), nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RemoteError{Code: codes.DeadlineExceeded, kind: ErrUnavailable}
	}
	st, _ := status.FromError(err)
	re := &RemoteError{Code: st.Code(), Message: strings.TrimSpace(st.Message())}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		re.kind = ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		re.kind = ErrUnavailable
	case codes.NotFound:
		re.kind = ErrNotFound
	case codes.InvalidArgument:
		re.kind = ErrInvalidArgument
	}
	return re
}

func toSettings(r *api.SettingsResponse) *models.Settings {
	set := slices.Clone(r.CredentialsSet)
	slices.Sort(set)
	return &models.Settings{
		Language:                  r.Language,
		AnalyticsConsent:          r.AnalyticsConsent,
		SoundNotificationsEnabled: r.SoundNotificationsEnabled,
		LLMModel:                  r.LLMModel,
		CredentialsSet:            set,
		UpdatedAt:                 r.UpdatedAt,
	}
}

func toCatalog(r *api.CapabilitiesResponse) *models.Catalog {
	c := &models.Catalog{
		Mode: models.Mode(r.Mode),
		Defaults: models.Defaults{
			Language:                  r.Defaults.Language,
			AnalyticsConsent:          r.Defaults.AnalyticsConsent,
			SoundNotificationsEnabled: r.Defaults.SoundNotificationsEnabled,
		},
	}
	if c.Mode == "" {
		c.Mode = models.ModeSelfManaged
	}
	for _, l := range r.Languages {
		c.Languages = append(c.Languages, models.Language{Code: l.Code, Label: l.Label})
	}
	for _, p := range r.Providers {
		c.Providers = append(c.Providers, models.Provider{ID: p.ID, Label: p.Label, Models: slices.Clone(p.Models)})
	}
	return c
}

func toPatchRequest(p *models.Patch) *api.PatchSettingsRequest {
	req := &api.PatchSettingsRequest{}
	if p == nil {
		return req
	}
	req.Language = p.Language
	req.AnalyticsConsent = p.AnalyticsConsent
	req.SoundNotificationsEnabled = p.SoundNotificationsEnabled
	req.LLMModel = p.LLMModel
	if len(p.Credentials) > 0 {
		req.Credentials = make(map[string]string, len(p.Credentials))
		for k, v := range p.Credentials {
			req.Credentials[k] = v
		}
	}
	req.RemoveCredentials = slices.Clone(p.RemoveCredentials)
	return req
}
