package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/helpdeck-io/helpdeck/internal/services/web/identity"
	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/sessioncookie"
)

// VerifyToken validates a raw session token.
type VerifyToken func(rawToken string) (identity.Identity, error)

// requestPrincipalState caches per-request identity resolution so viewer,
// signed-in, user-id, and bearer-token lookups verify the session token at
// most once.
type requestPrincipalState struct {
	once     sync.Once
	fill     func()
	token    string
	identity identity.Identity
	signedIn bool
}

func (s *requestPrincipalState) resolve() (string, identity.Identity, bool) {
	if s == nil {
		return "", identity.Identity{}, false
	}
	if s.fill != nil {
		s.once.Do(s.fill)
	}
	return s.token, s.identity, s.signedIn
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	verify VerifyToken
}

func newPrincipalResolver(verify VerifyToken) principalResolver {
	return principalResolver{verify: verify}
}

// middleware seeds each request with a principal cache. It must wrap the root
// handler so module resolvers and the support API token source share one
// resolution.
func (p principalResolver) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := &requestPrincipalState{}
		withState := r.WithContext(context.WithValue(r.Context(), requestPrincipalStateKey{}, state))
		state.fill = func() {
			state.token, state.identity, state.signedIn = p.resolveUncached(withState)
		}
		next.ServeHTTP(w, withState)
	})
}

func principalStateFromContext(ctx context.Context) *requestPrincipalState {
	if ctx == nil {
		return nil
	}
	state, _ := ctx.Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}

func (p principalResolver) resolveUncached(r *http.Request) (string, identity.Identity, bool) {
	if r == nil || p.verify == nil {
		return "", identity.Identity{}, false
	}
	token, ok := sessioncookie.Read(r)
	if !ok {
		return "", identity.Identity{}, false
	}
	actor, err := p.verify(token)
	if err != nil {
		return "", identity.Identity{}, false
	}
	return token, actor, true
}

func (p principalResolver) resolve(r *http.Request) (string, identity.Identity, bool) {
	if r == nil {
		return "", identity.Identity{}, false
	}
	if state := principalStateFromContext(r.Context()); state != nil {
		return state.resolve()
	}
	return p.resolveUncached(r)
}

func (p principalResolver) resolveSignedIn(r *http.Request) bool {
	_, _, ok := p.resolve(r)
	return ok
}

func (p principalResolver) resolveUserID(r *http.Request) string {
	_, actor, ok := p.resolve(r)
	if !ok {
		return ""
	}
	return actor.UserID
}

func (p principalResolver) resolveViewer(r *http.Request) module.Viewer {
	_, actor, ok := p.resolve(r)
	if !ok {
		return module.Viewer{}
	}
	return module.Viewer{DisplayName: actor.DisplayName, Email: actor.Email}
}

// sessionTokenFromContext exposes the verified session token as the support
// API bearer credential. Unverified cookies never become bearer tokens.
func sessionTokenFromContext(ctx context.Context) (string, bool) {
	token, _, ok := principalStateFromContext(ctx).resolve()
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
