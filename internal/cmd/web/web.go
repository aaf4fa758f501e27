// Package web parses dashboard service flags and launches the service.
package web

import (
	"context"
	"flag"

	entrypoint "github.com/helpdeck-io/helpdeck/internal/platform/cmd"
	server "github.com/helpdeck-io/helpdeck/internal/services/web"
)

// Config holds web command configuration.
type Config struct {
	HTTPAddr            string `env:"HELPDECK_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	SupportAPIBaseURL   string `env:"HELPDECK_SUPPORT_API_URL" envDefault:"http://localhost:8081"`
	PreferencesDBPath   string `env:"HELPDECK_WEB_PREFS_DB" envDefault:"helpdeck-prefs.db"`
	IdentityIssuer      string `env:"HELPDECK_IDENTITY_ISSUER" envDefault:"https://id.helpdeck.local"`
	IdentityAudience    string `env:"HELPDECK_IDENTITY_AUDIENCE" envDefault:"helpdeck-web"`
	IdentityPublicKey   string `env:"HELPDECK_IDENTITY_PUBLIC_KEY"`
	DemoLogin           bool   `env:"HELPDECK_DEMO_LOGIN" envDefault:"true"`
	TrustForwardedProto bool   `env:"HELPDECK_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The dashboard HTTP listen address")
	fs.StringVar(&cfg.SupportAPIBaseURL, "support-api-url", cfg.SupportAPIBaseURL, "The support API base URL")
	fs.StringVar(&cfg.PreferencesDBPath, "prefs-db", cfg.PreferencesDBPath, "The SQLite path for user preferences")
	fs.StringVar(&cfg.IdentityIssuer, "identity-issuer", cfg.IdentityIssuer, "The identity token issuer")
	fs.StringVar(&cfg.IdentityAudience, "identity-audience", cfg.IdentityAudience, "The identity token audience")
	fs.StringVar(&cfg.IdentityPublicKey, "identity-public-key", cfg.IdentityPublicKey, "The base64 ed25519 identity provider key")
	fs.BoolVar(&cfg.DemoLogin, "demo-login", cfg.DemoLogin, "Enable local form sign-in with an ephemeral issuer")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto from a fronting proxy")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the dashboard web service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		srv, err := server.NewServer(server.Config{
			HTTPAddr:            cfg.HTTPAddr,
			SupportAPIBaseURL:   cfg.SupportAPIBaseURL,
			PreferencesDBPath:   cfg.PreferencesDBPath,
			IdentityIssuer:      cfg.IdentityIssuer,
			IdentityAudience:    cfg.IdentityAudience,
			IdentityPublicKey:   cfg.IdentityPublicKey,
			DemoLogin:           cfg.DemoLogin,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return err
		}
		defer srv.Close()
		return srv.ListenAndServe(ctx)
	})
}
