package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophsettings/internal/api"
	"github.com/dmitrijs2005/gophsettings/internal/common"
	"github.com/dmitrijs2005/gophsettings/internal/server/auth"
)

type ctxKey string

const (
	userIDKey      ctxKey = "userID"
	requestInfoKey ctxKey = "requestInfo"
)

// requestInfo is shared by the interceptor chain; inner interceptors fill in
// what the outer one logs.
type requestInfo struct {
	ID     string
	UserID string
}

// publicMethods do not require an access token.
var publicMethods = map[string]struct{}{
	api.PingFullMethod:            {},
	api.GetCapabilitiesFullMethod: {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	accessToken := firstMetadata(ctx, common.AccessTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	if ri, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		ri.UserID = userID
	}

	ctx = context.WithValue(ctx, userIDKey, userID)
	return handler(ctx, req)
}

// requestIDInterceptor tags every call with a request id (taken from the
// caller when present), echoes it in the response header and logs the
// outcome.
func (s *GRPCServer) requestIDInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	requestID := firstMetadata(ctx, common.RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ri := &requestInfo{ID: requestID}
	ctx = context.WithValue(ctx, requestInfoKey, ri)
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{
		"method", info.FullMethod,
		"request_id", requestID,
		"code", code.String(),
		"duration", time.Since(start),
	}
	if ri.UserID != "" {
		args = append(args, "user_id", ri.UserID)
	}

	switch code {
	case codes.OK:
		s.logger.Info(ctx, "request", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "request", args...)
	default:
		s.logger.Warn(ctx, "request", args...)
	}

	return resp, err
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

func requestIDFromContext(ctx context.Context) string {
	if ri, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		return ri.ID
	}
	return ""
}
