package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLogger_WritesKeyValuePairs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(LevelInfo, &buf).Named("footballdata")

	logger.InfoContext(context.Background(), "provider request", "endpoint", "standings", "error", errors.New("boom"))
	logger.Debug("hidden")

	out := buf.String()
	for _, want := range []string{`"msg":"provider request"`, `"endpoint":"standings"`, `"error":"boom"`, `"logger":"footballdata"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %s", out, want)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered at info level: %q", out)
	}
}

func TestLogger_OddArgsKeepLastKey(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONWriter(LevelDebug, &buf).Warn("dangling", "key")

	if !strings.Contains(buf.String(), `"key":null`) {
		t.Fatalf("expected dangling key logged as null, got %q", buf.String())
	}
}

func TestLogger_RedactsSensitiveValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONWriter(LevelInfo, &buf).With("API_KEY", "abc123").Info("login", "username", "ana", "password", "s3cret")

	out := buf.String()
	if strings.Contains(out, "s3cret") || strings.Contains(out, "abc123") {
		t.Fatalf("expected secrets redacted, got %q", out)
	}
	if !strings.Contains(out, `"password":"[REDACTED]"`) || !strings.Contains(out, `"username":"ana"`) {
		t.Fatalf("unexpected output %q", out)
	}
}
