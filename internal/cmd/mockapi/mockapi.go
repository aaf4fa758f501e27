// Package mockapi parses mock support API flags and launches the service.
package mockapi

import (
	"context"
	"flag"

	entrypoint "github.com/helpdeck-io/helpdeck/internal/platform/cmd"
	server "github.com/helpdeck-io/helpdeck/internal/services/mockapi"
)

// Config holds mock API command configuration.
type Config struct {
	HTTPAddr string `env:"HELPDECK_MOCKAPI_HTTP_ADDR" envDefault:"localhost:8081"`
	DBPath   string `env:"HELPDECK_MOCKAPI_DB" envDefault:"helpdeck-support.db"`
	SeedPath string `env:"HELPDECK_MOCKAPI_SEED"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The mock API HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite path for the mock support store")
	fs.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "A YAML seed fixture; empty uses the embedded default")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the mock support API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMockAPI, func(ctx context.Context) error {
		srv, err := server.NewServer(ctx, server.Config{
			HTTPAddr: cfg.HTTPAddr,
			DBPath:   cfg.DBPath,
			SeedPath: cfg.SeedPath,
		})
		if err != nil {
			return err
		}
		defer srv.Close()
		return srv.ListenAndServe(ctx)
	})
}
