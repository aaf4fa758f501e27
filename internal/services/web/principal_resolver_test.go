package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/helpdeck-io/helpdeck/internal/services/web/identity"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/sessioncookie"
)

func TestPrincipalResolverWithoutCookie(t *testing.T) {
	t.Parallel()

	resolver := newPrincipalResolver(func(string) (identity.Identity, error) {
		t.Fatal("verify should not run without a cookie")
		return identity.Identity{}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if resolver.resolveSignedIn(req) {
		t.Fatal("resolveSignedIn = true without a cookie")
	}
	if got := resolver.resolveUserID(req); got != "" {
		t.Fatalf("resolveUserID = %q, want empty", got)
	}
	if viewer := resolver.resolveViewer(req); viewer.DisplayName != "" {
		t.Fatalf("viewer = %+v, want zero", viewer)
	}
}

func TestPrincipalResolverRejectsBadToken(t *testing.T) {
	t.Parallel()

	resolver := newPrincipalResolver(func(string) (identity.Identity, error) {
		return identity.Identity{}, errors.New("bad signature")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "forged"})
	if resolver.resolveSignedIn(req) {
		t.Fatal("resolveSignedIn = true for a rejected token")
	}
}

func TestPrincipalMiddlewareVerifiesOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	resolver := newPrincipalResolver(func(raw string) (identity.Identity, error) {
		calls.Add(1)
		return identity.Identity{UserID: "user-1", Email: "ada@example.com", DisplayName: "Ada"}, nil
	})

	handler := resolver.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !resolver.resolveSignedIn(r) {
			t.Error("resolveSignedIn = false for a valid token")
		}
		if got := resolver.resolveUserID(r); got != "user-1" {
			t.Errorf("resolveUserID = %q", got)
		}
		if viewer := resolver.resolveViewer(r); viewer.DisplayName != "Ada" {
			t.Errorf("viewer = %+v", viewer)
		}
		token, ok := sessionTokenFromContext(r.Context())
		if !ok || token != "session-token" {
			t.Errorf("sessionTokenFromContext = %q, %v", token, ok)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "session-token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := calls.Load(); got != 1 {
		t.Fatalf("verify ran %d times, want 1", got)
	}
}

func TestSessionTokenUnavailableOutsideMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token, ok := sessionTokenFromContext(req.Context()); ok || token != "" {
		t.Fatalf("sessionTokenFromContext = %q, %v, want unavailable", token, ok)
	}
}
