package production

import (
	"context"
	"io"
	"log"
	"testing"
)

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestSetupTracing(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{"noop when endpoint empty", "", ""},
		{"noop when disabled", "http://localhost:4318", "false"},
		{"provider when endpoint set", "http://192.0.2.1:4318", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOTelEndpoint, tt.endpoint)
			t.Setenv(EnvOTelEnabled, tt.enabled)

			shutdown, err := SetupTracing(context.Background(), "spaceteam-test")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown error: %v", err)
			}
		})
	}
}

func TestSetupTracing_NoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv(EnvOTelEndpoint, "")
	shutdown, err := SetupTracing(context.Background(), "noop")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}
