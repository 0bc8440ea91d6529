package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophsettings/internal/api"
	"github.com/dmitrijs2005/gophsettings/internal/common"
	"github.com/dmitrijs2005/gophsettings/internal/server/auth"
)

func newTestServer(secret string) *GRPCServer {
	return &GRPCServer{
		logger:    nopLogger{},
		jwtSecret: []byte(secret),
		settings:  &fakeService{},
	}
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.NewIncomingContext(ctx, metadata.New(map[string]string{
		common.AccessTokenHeaderName: token,
	}))
}

func TestInterceptor_PublicMethodsSkipAuth(t *testing.T) {
	s := newTestServer("secret")

	for _, method := range []string{api.PingFullMethod, api.GetCapabilitiesFullMethod} {
		t.Run(method, func(t *testing.T) {
			called := false
			h := func(ctx context.Context, req any) (any, error) {
				called = true
				return "ok", nil
			}

			resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: method}, h)
			require.NoError(t, err)
			assert.True(t, called)
			assert.Equal(t, "ok", resp)
		})
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: api.GetSettingsFullMethod}, h)
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")
	ctx := withToken(context.Background(), "not-a-valid-jwt")

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called on invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: api.PatchSettingsFullMethod}, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "invalid token", status.Convert(err).Message())
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s := newTestServer("secret")
	tok, err := auth.GenerateToken("u-1", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = s.accessTokenInterceptor(withToken(context.Background(), tok), nil,
		&grpc.UnaryServerInfo{FullMethod: api.GetSettingsFullMethod},
		func(ctx context.Context, req any) (any, error) { return nil, nil })
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "token expired", status.Convert(err).Message())
}

func TestInterceptor_ValidTokenPutsUserInContext(t *testing.T) {
	s := newTestServer("secret")
	tok, err := auth.GenerateToken("user-42", []byte("secret"), time.Minute)
	require.NoError(t, err)

	ri := &requestInfo{ID: "r-1"}
	ctx := context.WithValue(withToken(context.Background(), tok), requestInfoKey, ri)

	var got string
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = userIDFromContext(ctx)
		return "ok", nil
	}

	_, err = s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: api.GetSettingsFullMethod}, h)
	require.NoError(t, err)
	assert.Equal(t, "user-42", got)
	assert.Equal(t, "user-42", ri.UserID)
}

func TestRequestIDInterceptor_GeneratesID(t *testing.T) {
	s := newTestServer("secret")

	var seen string
	h := func(ctx context.Context, req any) (any, error) {
		seen = requestIDFromContext(ctx)
		return "ok", nil
	}

	_, err := s.requestIDInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: api.PingFullMethod}, h)
	require.NoError(t, err)
	assert.Len(t, seen, 36)
}

func TestRequestIDInterceptor_KeepsCallerID(t *testing.T) {
	s := newTestServer("secret")
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.RequestIDHeaderName, "caller-id"))

	var seen string
	h := func(ctx context.Context, req any) (any, error) {
		seen = requestIDFromContext(ctx)
		return nil, status.Error(codes.NotFound, "nope")
	}

	_, err := s.requestIDInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: api.GetSettingsFullMethod}, h)
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "caller-id", seen)
}
