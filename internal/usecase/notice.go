package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-visible message attached to a degraded result.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func warningNotice(format string, args ...any) Notice {
	return Notice{Level: NoticeWarning, Message: fmt.Sprintf(format, args...)}
}

func errorNotice(format string, args ...any) Notice {
	return Notice{Level: NoticeError, Message: fmt.Sprintf(format, args...)}
}

// degrade logs a failure that the caller turns into an empty result.
func degrade(ctx context.Context, logger *logging.Logger, component string, err error, message string, kv ...any) Notice {
	fields := append([]any{"component", component, "error", err}, kv...)
	logger.WarnContext(ctx, "serving degraded result", fields...)
	markSpanDegraded(trace.SpanFromContext(ctx), err)
	return errorNotice("%s: %v", message, err)
}

// HasErrors reports whether any notice is at error level.
func HasErrors(notices []Notice) bool {
	for _, n := range notices {
		if n.Level == NoticeError {
			return true
		}
	}
	return false
}

func loggerOrDefault(logger *logging.Logger) *logging.Logger {
	if logger == nil {
		return logging.Default()
	}
	return logger
}
