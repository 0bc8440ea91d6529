// Package logging is the structured logger shared by the client and the
// server. SlogLogger backs it with log/slog.
package logging

import "context"

// Logger takes a message plus alternating key and value args:
//
//	logger.Info(ctx, "settings patched", "user_id", userID, "patch", patch)
//
// Values implementing slog.LogValuer, such as *models.Patch, control their own
// rendering so credential values never reach a log line.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
