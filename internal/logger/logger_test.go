package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/deppfellow/errorpage/internal/config"
)

func TestNewLogger_ProductionJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var out bytes.Buffer
	log := newLogger(cfg, nil, &out)

	log.Debug().Msg("hidden")
	log.Info().Str("template", "@App/Exception/error.html.gohtml").Msg("rendered")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1:\n%s", len(lines), out.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, lines[0])
	}
	if entry["message"] != "rendered" || entry["service"] != config.ServiceName || entry["environment"] != "production" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewLogger_DevelopmentConsole(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "debug"

	var out bytes.Buffer
	log := newLogger(cfg, nil, &out)
	log.Debug().Msg("compiled template")

	if !strings.Contains(out.String(), "compiled template") {
		t.Fatalf("debug line missing: %q", out.String())
	}
	if strings.HasPrefix(out.String(), "{") {
		t.Fatalf("development logger writes JSON: %q", out.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithTraceContext_NoTransaction(t *testing.T) {
	var out bytes.Buffer
	log := WithTraceContext(zerolog.New(&out), nil)
	log.Info().Msg("hello")

	if strings.Contains(out.String(), "trace.id") {
		t.Fatalf("trace fields added without a transaction: %s", out.String())
	}
}

func TestLoggerService_Disabled(t *testing.T) {
	svc := NewLoggerService(config.DefaultObservabilityConfig())
	if svc.GetApplication() != nil {
		t.Fatalf("New Relic started without a license key")
	}
	svc.Shutdown()

	var nilSvc *LoggerService
	if nilSvc.GetApplication() != nil {
		t.Fatalf("nil service returned an application")
	}
}
