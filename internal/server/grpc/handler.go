package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/gophsettings/internal/api"
	"github.com/dmitrijs2005/gophsettings/internal/common"
	"github.com/dmitrijs2005/gophsettings/internal/server/catalog"
	"github.com/dmitrijs2005/gophsettings/internal/server/models"
	"github.com/dmitrijs2005/gophsettings/internal/server/services"
)

func (s *GRPCServer) GetSettings(ctx context.Context, _ *emptypb.Empty) (*api.SettingsResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	view, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, s.mapError(ctx, err)
	}

	return toSettingsResponse(view), nil
}

func (s *GRPCServer) GetCapabilities(ctx context.Context, _ *emptypb.Empty) (*api.CapabilitiesResponse, error) {
	return toCapabilitiesResponse(s.settings.Capabilities()), nil
}

func (s *GRPCServer) PatchSettings(ctx context.Context, req *api.PatchSettingsRequest) (*api.SettingsResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	s.logger.Debug(ctx, "Patch request", "request_id", requestIDFromContext(ctx), "patch", req)

	view, err := s.settings.Patch(ctx, userID, fromPatchRequest(req))
	if err != nil {
		return nil, s.mapError(ctx, err)
	}

	return toSettingsResponse(view), nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

// mapError translates service errors into gRPC statuses. Validation
// messages are passed through so the client can show them verbatim.
func (s *GRPCServer) mapError(ctx context.Context, err error) error {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "settings not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, err.Error(), "request_id", requestIDFromContext(ctx))
		return status.Error(codes.Internal, "internal error")
	}
}

func toSettingsResponse(v *services.SettingsView) *api.SettingsResponse {
	set := v.CredentialsSet
	if set == nil {
		set = []string{}
	}
	return &api.SettingsResponse{
		Language:                  v.Settings.Language,
		AnalyticsConsent:          v.Settings.AnalyticsConsent,
		SoundNotificationsEnabled: v.Settings.SoundNotificationsEnabled,
		LLMModel:                  v.Settings.LLMModel,
		CredentialsSet:            set,
		UpdatedAt:                 v.Settings.UpdatedAt,
	}
}

func toCapabilitiesResponse(c *catalog.Catalog) *api.CapabilitiesResponse {
	resp := &api.CapabilitiesResponse{
		Mode:      c.Mode,
		Languages: make([]api.Language, 0, len(c.Languages)),
		Providers: make([]api.Provider, 0, len(c.Providers)),
		Defaults: api.Defaults{
			Language:                  c.Defaults.Language,
			AnalyticsConsent:          c.Defaults.AnalyticsConsent,
			SoundNotificationsEnabled: c.Defaults.SoundNotificationsEnabled,
		},
	}
	for _, l := range c.Languages {
		resp.Languages = append(resp.Languages, api.Language{Code: l.Code, Label: l.Label})
	}
	for _, p := range c.Providers {
		resp.Providers = append(resp.Providers, api.Provider{ID: p.ID, Label: p.Label, Models: p.Models})
	}
	return resp
}

func fromPatchRequest(req *api.PatchSettingsRequest) services.Patch {
	return services.Patch{
		SettingsPatch: models.SettingsPatch{
			Language:                  req.Language,
			AnalyticsConsent:          req.AnalyticsConsent,
			SoundNotificationsEnabled: req.SoundNotificationsEnabled,
			LLMModel:                  req.LLMModel,
		},
		Credentials:       req.Credentials,
		RemoveCredentials: req.RemoveCredentials,
	}
}
