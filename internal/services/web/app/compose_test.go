package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/sessioncookie"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

type stubModule struct {
	id       string
	prefixes []string
	handler  http.Handler
	mountErr error
}

func (m stubModule) ID() string { return m.id }

func (m stubModule) Mount() (module.Mount, error) {
	if m.mountErr != nil {
		return module.Mount{}, m.mountErr
	}
	return module.Mount{Prefixes: m.prefixes, Handler: m.handler}, nil
}

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			return
		}
	})
}

func TestComposeMountsPublicAndProtectedModules(t *testing.T) {
	t.Parallel()

	handler, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		PublicModules: []module.Module{
			stubModule{id: "home", prefixes: []string{"/{$}"}, handler: okHandler("home")},
		},
		ProtectedModules: []module.Module{
			stubModule{id: "tickets", prefixes: []string{routepath.AppTickets, routepath.TicketsPrefix}, handler: okHandler("tickets")},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "home" {
		t.Fatalf("home response = %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.AppTickets, nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "tickets" {
		t.Fatalf("tickets response = %d %q", rr.Code, rr.Body.String())
	}
}

func TestComposeRedirectsSignedOutUsers(t *testing.T) {
	t.Parallel()

	handler, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return false },
		ProtectedModules: []module.Module{
			stubModule{id: "tickets", prefixes: []string{routepath.AppTickets, routepath.TicketsPrefix}, handler: okHandler("tickets")},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.AppTickets, nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != routepath.Login {
		t.Fatalf("Location = %q, want %q", got, routepath.Login)
	}
}

func TestComposeRejectsCookieMutationWithoutSameOriginProof(t *testing.T) {
	t.Parallel()

	handler, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		ProtectedModules: []module.Module{
			stubModule{id: "tickets", prefixes: []string{routepath.TicketsPrefix}, handler: okHandler("tickets")},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, routepath.AppTicketsCreate, strings.NewReader(""))
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, routepath.AppTicketsCreate, strings.NewReader(""))
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token"})
	req.Header.Set("Origin", "http://"+req.Host)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("same-origin status = %d, want 200", rr.Code)
	}
}

func TestComposeValidatesMounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input ComposeInput
	}{
		{
			name: "duplicate prefix",
			input: ComposeInput{PublicModules: []module.Module{
				stubModule{id: "a", prefixes: []string{"/{$}"}, handler: okHandler("a")},
				stubModule{id: "b", prefixes: []string{"/{$}"}, handler: okHandler("b")},
			}},
		},
		{
			name: "public module under app prefix",
			input: ComposeInput{PublicModules: []module.Module{
				stubModule{id: "sneaky", prefixes: []string{routepath.TicketsPrefix}, handler: okHandler("x")},
			}},
		},
		{
			name: "protected module outside app prefix",
			input: ComposeInput{ProtectedModules: []module.Module{
				stubModule{id: "loose", prefixes: []string{"/loose/"}, handler: okHandler("x")},
			}},
		},
		{
			name: "missing handler",
			input: ComposeInput{PublicModules: []module.Module{
				stubModule{id: "empty", prefixes: []string{"/{$}"}},
			}},
		},
		{
			name: "missing prefixes",
			input: ComposeInput{PublicModules: []module.Module{
				stubModule{id: "bare", handler: okHandler("x")},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Compose(tc.input); err == nil {
				t.Fatal("Compose() error = nil, want error")
			}
		})
	}
}
