package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestRunWithTelemetryRequiresServiceName(t *testing.T) {
	t.Parallel()

	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryRequiresRunFunc(t *testing.T) {
	t.Parallel()

	err := RunWithTelemetry(context.Background(), ServiceWeb, nil)
	if err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	wantErr := errors.New("listen failed")
	err := RunWithTelemetry(context.Background(), ServiceWeb, func(context.Context) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("RunWithTelemetry() error = %v, want %v", err, wantErr)
	}
}

func TestParseConfigFromArgsParsesFlags(t *testing.T) {
	type cfg struct {
		Addr string `env:"HELPDECK_ENTRYPOINT_TEST_ADDR" envDefault:"localhost:1"`
	}

	var c cfg
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	if err := ParseConfigFromArgs(&c, fs, []string{"-addr", "localhost:2"}); err != nil {
		t.Fatalf("ParseConfigFromArgs() error = %v", err)
	}
	if c.Addr != "localhost:2" {
		t.Fatalf("Addr = %q, want %q", c.Addr, "localhost:2")
	}
}

func TestParseArgsRequiresFlagSet(t *testing.T) {
	t.Parallel()

	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}
