package templates

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// HomePage renders the marketing landing page.
func HomePage(signedIn bool) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<section class="hero"><h1>` + AppName + `</h1>`)
		sb.WriteString(`<p class="tagline">AI-assisted customer support, with humans in the loop.</p>`)
		if signedIn {
			sb.WriteString(`<a class="button button-primary" href="` + routepath.AppDashboard + `">Open dashboard</a>`)
		} else {
			sb.WriteString(`<a class="button button-primary" href="` + routepath.Login + `">Sign in</a>`)
		}
		sb.WriteString(`</section>`)
	})
}

// LoginPageState carries sign-in form state.
type LoginPageState struct {
	Email        string
	ErrorMessage string
}

// LoginPage renders the sign-in form.
func LoginPage(state LoginPageState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<section class="auth-card"><h1>Sign in</h1>`)
		if state.ErrorMessage != "" {
			sb.WriteString(`<p class="form-error" role="alert">` + esc(state.ErrorMessage) + `</p>`)
		}
		sb.WriteString(`<form method="post" action="` + routepath.Login + `">`)
		sb.WriteString(`<label class="field">Email<input type="email" name="email" value="` + attr(state.Email) + `" required autofocus></label>`)
		sb.WriteString(`<button class="button button-primary" type="submit">Continue</button>`)
		sb.WriteString(`</form></section>`)
	})
}
