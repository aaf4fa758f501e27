// Package web hosts the support dashboard HTTP server.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/helpdeck-io/helpdeck/internal/platform/timeouts"
	"github.com/helpdeck-io/helpdeck/internal/services/web/app"
	"github.com/helpdeck-io/helpdeck/internal/services/web/identity"
	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/modules"
	"github.com/helpdeck-io/helpdeck/internal/services/web/modules/auth"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/httpx"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/requestmeta"
	prefsqlite "github.com/helpdeck-io/helpdeck/internal/services/web/prefs/sqlite"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
	"github.com/helpdeck-io/helpdeck/internal/services/web/static"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// demoSessionTTL bounds demo-issued sessions; real deployments get expiry
// from the identity provider's tokens.
const demoSessionTTL = 12 * time.Hour

// Config defines the inputs for the dashboard web server.
type Config struct {
	HTTPAddr          string
	SupportAPIBaseURL string
	PreferencesDBPath string

	// IdentityIssuer and IdentityAudience name the token authority trusted
	// for session cookies.
	IdentityIssuer   string
	IdentityAudience string
	// IdentityPublicKey is the base64 ed25519 key of the external identity
	// provider. When empty, DemoLogin must be set and an ephemeral issuer
	// backs form sign-in.
	IdentityPublicKey string
	// DemoLogin enables the local form sign-in backed by an ephemeral
	// issuer. Never enable it behind a real identity provider.
	DemoLogin bool

	// TrustForwardedProto trusts X-Forwarded-Proto for scheme decisions.
	// Only enable behind a TLS-terminating proxy.
	TrustForwardedProto bool
}

// Server hosts the dashboard HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	prefsStore *prefsqlite.Store
}

// NewServer builds a configured dashboard server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	prefsStore, err := prefsqlite.Open(strings.TrimSpace(config.PreferencesDBPath))
	if err != nil {
		return nil, fmt.Errorf("open preferences store: %w", err)
	}

	handler, err := NewHandler(config, prefsStore)
	if err != nil {
		closeStore(prefsStore)
		return nil, err
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		prefsStore: prefsStore,
	}, nil
}

// NewHandler assembles the dashboard HTTP handler. It is the test-oriented
// entrypoint; NewServer wires owned resources around it.
func NewHandler(config Config, preferences module.PreferencesStore) (http.Handler, error) {
	policy := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}

	authCfg, verify, err := identityWiring(config, policy)
	if err != nil {
		return nil, err
	}
	resolver := newPrincipalResolver(verify)

	var support module.SupportClient
	if baseURL := strings.TrimSpace(config.SupportAPIBaseURL); baseURL != "" {
		client, err := supportapi.New(
			baseURL,
			supportapi.WithTokenSource(supportapi.TokenSourceFunc(sessionTokenFromContext)),
		)
		if err != nil {
			return nil, fmt.Errorf("build support api client: %w", err)
		}
		support = client
	} else {
		log.Printf("support api base url is empty, ticket and analytics pages will degrade")
	}

	deps := module.Dependencies{
		Support:         support,
		Preferences:     preferences,
		ResolveViewer:   resolver.resolveViewer,
		ResolveSignedIn: resolver.resolveSignedIn,
		ResolveUserID:   resolver.resolveUserID,
	}

	composed, err := app.Compose(app.ComposeInput{
		AuthRequired:        resolver.resolveSignedIn,
		PublicModules:       modules.DefaultPublicModules(deps, authCfg),
		ProtectedModules:    modules.DefaultProtectedModules(deps),
		RequestSchemePolicy: policy,
	})
	if err != nil {
		return nil, fmt.Errorf("compose web modules: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(static.FS)))
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/", composed)

	return httpx.Chain(
		mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.RequestLogger(),
		resolver.middleware,
	), nil
}

// identityWiring resolves the verifier and auth module config for the
// configured identity mode.
func identityWiring(config Config, policy requestmeta.SchemePolicy) (auth.Config, VerifyToken, error) {
	issuer := strings.TrimSpace(config.IdentityIssuer)
	audience := strings.TrimSpace(config.IdentityAudience)

	if publicKey := strings.TrimSpace(config.IdentityPublicKey); publicKey != "" {
		verifier, err := identity.NewVerifier(issuer, audience, publicKey)
		if err != nil {
			return auth.Config{}, nil, fmt.Errorf("build identity verifier: %w", err)
		}
		verify := func(raw string) (identity.Identity, error) { return identity.Verify(verifier, raw) }
		return auth.Config{Verify: verify, Policy: policy}, verify, nil
	}

	if !config.DemoLogin {
		return auth.Config{}, nil, errors.New("identity public key or demo login is required")
	}
	demo, err := identity.NewDemoIssuer(issuer, audience, demoSessionTTL)
	if err != nil {
		return auth.Config{}, nil, fmt.Errorf("build demo issuer: %w", err)
	}
	verifier, err := demo.Verifier()
	if err != nil {
		return auth.Config{}, nil, fmt.Errorf("build demo verifier: %w", err)
	}
	verify := func(raw string) (identity.Identity, error) { return identity.Verify(verifier, raw) }
	return auth.Config{Issuer: demo, Verify: verify, Policy: policy}, verify, nil
}

// ListenAndServe runs the HTTP server until the context ends. On
// cancellation it performs a bounded shutdown so in-flight requests drain
// before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("dashboard listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases resources held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	closeStore(s.prefsStore)
}

func closeStore(store *prefsqlite.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Printf("close preferences store: %v", err)
	}
}
