// Package client talks to the settings server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     GetSettings, GetCapabilities, PatchSettings and Ping.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor, applies a
//     per-call timeout and maps gRPC status codes to errors.
//
// # Error Handling
//
// Every failed call returns a *RemoteError that keeps the server's
// human-readable message. It unwraps to a sentinel (ErrUnavailable,
// ErrUnauthorized, ErrNotFound, ErrInvalidArgument) when the status code
// has one, so callers can match with errors.Is and still show the message.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
