package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	kit "kycdesk/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"panic", zerolog.PanicLevel},
		{"off", zerolog.Disabled},
		{"  nonsense ", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{
		Level:        "debug",
		Format:       "json",
		Service:      "kycdesk-api",
		Component:    "dlocal",
		Writer:       &buf,
		StaticFields: map[string]string{"env": "test"},
	})
	l.Debug().Str("op", "kyc.create").Msg("dispatched")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	for k, want := range map[string]string{
		"service":   "kycdesk-api",
		"component": "dlocal",
		"env":       "test",
		"op":        "kyc.create",
		"message":   "dispatched",
	} {
		if line[k] != want {
			t.Fatalf("%s = %v, want %q", k, line[k], want)
		}
	}
}

func TestNewConsoleAndLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "console", Writer: &buf})
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	kit.MustContain(t, out, "shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Fatalf("info line leaked through warn level: %q", out)
	}
}

func TestRootHelpers(t *testing.T) {
	if Get() == nil {
		t.Fatalf("Get returned nil")
	}
	if Named("") != Get() {
		t.Fatalf("Named(\"\") should return root")
	}
	if C(context.Background()) != Get() {
		t.Fatalf("C without request id should return root")
	}

	ctx := WithRequest(context.Background(), "req-1")
	if ctx == context.Background() {
		t.Fatalf("WithRequest did not annotate")
	}
	if WithRequest(ctx, "") != ctx {
		t.Fatalf("empty id should be a no-op")
	}
	if C(ctx) == Get() {
		t.Fatalf("C with request id should build a child")
	}
}
