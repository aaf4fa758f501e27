package auth

import (
	"net/http"
	"strings"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/pagerender"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/sessioncookie"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
	"github.com/helpdeck-io/helpdeck/internal/services/web/templates"
)

type handlers struct {
	deps module.Dependencies
	cfg  Config
}

func (h handlers) signedIn(r *http.Request) bool {
	return h.deps.ResolveSignedIn != nil && h.deps.ResolveSignedIn(r)
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.signedIn(r) {
		http.Redirect(w, r, routepath.AppDashboard, http.StatusFound)
		return
	}
	h.renderLogin(w, r, templates.LoginPageState{}, http.StatusOK)
}

func (h handlers) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, templates.LoginPageState{ErrorMessage: "The sign-in form could not be read."}, http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	if h.cfg.Issuer == nil {
		h.renderLogin(w, r, templates.LoginPageState{
			Email:        email,
			ErrorMessage: "Form sign-in is disabled. Use your identity provider.",
		}, http.StatusForbidden)
		return
	}
	token, err := h.cfg.Issuer.Issue(email)
	if err != nil {
		h.renderLogin(w, r, templates.LoginPageState{
			Email:        email,
			ErrorMessage: "Enter a valid email address.",
		}, http.StatusUnprocessableEntity)
		return
	}
	h.establishSession(w, r, token)
}

func (h handlers) handleCallback(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		h.renderLogin(w, r, templates.LoginPageState{ErrorMessage: "The sign-in response was missing a token."}, http.StatusBadRequest)
		return
	}
	h.establishSession(w, r, token)
}

// establishSession verifies a token before trusting it with a cookie, so a
// broken issuer or forged callback never creates a session.
func (h handlers) establishSession(w http.ResponseWriter, r *http.Request, token string) {
	if h.cfg.Verify == nil {
		h.renderLogin(w, r, templates.LoginPageState{ErrorMessage: "Sign-in is not configured."}, http.StatusServiceUnavailable)
		return
	}
	if _, err := h.cfg.Verify(token); err != nil {
		h.renderLogin(w, r, templates.LoginPageState{ErrorMessage: "Your sign-in could not be verified. Try again."}, http.StatusUnauthorized)
		return
	}
	sessioncookie.Write(w, r, token, h.cfg.Policy)
	http.Redirect(w, r, routepath.AppDashboard, http.StatusSeeOther)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, r, h.cfg.Policy)
	http.Redirect(w, r, routepath.Root, http.StatusSeeOther)
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, state templates.LoginPageState, statusCode int) {
	pagerender.WritePublicPage(w, r, "Sign in", statusCode, templates.LoginPage(state))
}
