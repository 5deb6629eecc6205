package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "json", config: Config{Level: "info", Format: "json"}},
		{name: "text", config: Config{Level: "debug", Format: "text"}},
		{name: "console maps to text", config: Config{Level: "warn", Format: "console"}},
		{name: "defaults", config: Config{}},
		{name: "invalid level", config: Config{Level: "verbose"}, wantErr: true},
		{name: "invalid format", config: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	child := logger.Slog().With("component", "test")
	child.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %s", buf.String())
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected derived logger to follow the new level, got %q", buf.String())
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", logger.Level())
	}

	if err := logger.SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogger_ContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithRouteID(ctx, "route-9")
	ctx = WithClientIP(ctx, "10.0.0.1")
	logger.Slog().With("component", "test").InfoContext(ctx, "route computed")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	for key, want := range map[string]string{
		"request_id": "req-123",
		"route_id":   "route-9",
		"client_ip":  "10.0.0.1",
		"component":  "test",
	} {
		if record[key] != want {
			t.Errorf("%s = %v, want %q", key, record[key], want)
		}
	}
}

func TestContextGetters_Empty(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetRouteID(ctx) != "" || GetClientIP(ctx) != "" {
		t.Error("expected empty values from a bare context")
	}
}

func TestRedactor(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Redact: true, Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Slog().Info("forwarding",
		"authorization", "Basic dXNlcjpwYXNz",
		"Password", "hunter2",
		"header", "Bearer abc.def.ghi",
		"target", "http://upstream:8080",
	)

	out := buf.String()
	for _, secret := range []string{"dXNlcjpwYXNz", "hunter2", "abc.def.ghi"} {
		if strings.Contains(out, secret) {
			t.Errorf("secret %q leaked: %s", secret, out)
		}
	}
	if !strings.Contains(out, "http://upstream:8080") {
		t.Errorf("non-sensitive value was altered: %s", out)
	}
	if !strings.Contains(out, "Bearer [REDACTED]") {
		t.Errorf("expected scheme to be kept: %s", out)
	}
}
