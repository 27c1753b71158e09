package telemetry

import (
	"context"
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		ServiceName:    "agrochain-api",
		ServiceVersion: "test",
		Environment:    "test",
		EnableTracing:  true,
		EnableMetrics:  true,
		SampleRate:     1.0,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(*Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"negative sample rate", func(c *Config) { c.SampleRate = -0.1 }, ErrInvalidSampleRate},
		{"sample rate above one", func(c *Config) { c.SampleRate = 1.5 }, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected error to wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	t.Run("initializes both providers with injected exporters", func(t *testing.T) {
		ctx := context.Background()

		tel, err := Initialize(ctx, validConfig(),
			WithTraceExporter(NewNoopTraceExporter()),
			WithMetricExporter(NewNoopMetricExporter()),
		)
		if err != nil {
			t.Fatalf("Initialize() failed: %v", err)
		}
		defer func() {
			if err := tel.Shutdown(ctx); err != nil {
				t.Errorf("Shutdown() failed: %v", err)
			}
		}()

		if tel.TracerProvider() == nil {
			t.Error("expected tracer provider to be configured")
		}
		if tel.MeterProvider() == nil {
			t.Error("expected meter provider to be configured")
		}
	})

	t.Run("skips disabled signals", func(t *testing.T) {
		ctx := context.Background()
		cfg := validConfig()
		cfg.EnableTracing = false
		cfg.EnableMetrics = false

		tel, err := Initialize(ctx, cfg)
		if err != nil {
			t.Fatalf("Initialize() failed: %v", err)
		}
		defer func() { _ = tel.Shutdown(ctx) }()

		if tel.TracerProvider() != nil {
			t.Error("expected no tracer provider when tracing disabled")
		}
		if tel.MeterProvider() != nil {
			t.Error("expected no meter provider when metrics disabled")
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := validConfig()
		cfg.ServiceName = ""

		if _, err := Initialize(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestSpanHelpers(t *testing.T) {
	t.Run("span helpers tolerate nil span", func(t *testing.T) {
		AddSpanAttributes(nil)
		RecordSpanError(nil, errors.New("some error"))
		SetSpanSuccess(nil)
	})

	t.Run("trace and span IDs are empty without an active span", func(t *testing.T) {
		ctx := context.Background()
		if got := TraceID(ctx); got != "" {
			t.Errorf("expected empty trace ID, got %q", got)
		}
		if got := SpanID(ctx); got != "" {
			t.Errorf("expected empty span ID, got %q", got)
		}
	})

	t.Run("trace and span IDs are populated inside a span", func(t *testing.T) {
		ctx := context.Background()

		tel, err := Initialize(ctx, validConfig(),
			WithTraceExporter(NewNoopTraceExporter()),
			WithMetricExporter(NewNoopMetricExporter()),
		)
		if err != nil {
			t.Fatalf("Initialize() failed: %v", err)
		}
		defer func() { _ = tel.Shutdown(ctx) }()

		spanCtx, span := StartSpan(ctx, "test-span")
		defer span.End()

		if TraceID(spanCtx) == "" {
			t.Error("expected non-empty trace ID inside span")
		}
		if SpanID(spanCtx) == "" {
			t.Error("expected non-empty span ID inside span")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run("level "+tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input).String(); got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
