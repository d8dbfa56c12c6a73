package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	t.Parallel()

	if !shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health probe request log to be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/v1/teams"}) {
		t.Fatalf("expected domain request log to be shipped")
	}
	if shouldSkipUptraceLog("sync job started", []any{"path", "/healthz"}) {
		t.Fatalf("expected non-request log to be shipped")
	}
}

func TestToOTelSeverity(t *testing.T) {
	t.Parallel()

	cases := map[zapcore.Level]otellog.Severity{
		zapcore.DebugLevel: otellog.SeverityDebug,
		zapcore.InfoLevel:  otellog.SeverityInfo,
		zapcore.WarnLevel:  otellog.SeverityWarn,
		zapcore.ErrorLevel: otellog.SeverityError,
		zapcore.PanicLevel: otellog.SeverityFatal,
	}
	for level, want := range cases {
		if got := toOTelSeverity(level); got != want {
			t.Fatalf("severity for %s: got %v, want %v", level, got, want)
		}
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := buildOTelLogAttributes([]any{"job_id", "abc", "records", int64(42), 7, "keyless"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "job_id" || attrs[0].Value.AsString() != "abc" {
		t.Fatalf("unexpected first attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "records" || attrs[1].Value.AsInt64() != 42 {
		t.Fatalf("unexpected second attribute: %+v", attrs[1])
	}
	// Non-string keys fall back to a positional name.
	if attrs[2].Key != "arg_2" {
		t.Fatalf("unexpected fallback key: %q", attrs[2].Key)
	}
}
