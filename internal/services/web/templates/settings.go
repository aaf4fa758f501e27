package templates

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// AccountSettingsState captures form state for the account page.
type AccountSettingsState struct {
	DisplayName  string
	Email        string
	Timezone     string
	ErrorMessage string
}

// NotificationSettingsState captures form state for the notifications page.
type NotificationSettingsState struct {
	EmailOnAssignment bool
	EmailOnApproval   bool
	DailyDigest       bool
	DesktopAlerts     bool
	ErrorMessage      string
}

// AISettingsState captures form state for the AI behavior page.
type AISettingsState struct {
	AutoResolveEnabled  bool
	ConfidenceThreshold string
	RequireApproval     bool
	ErrorMessage        string
}

func writeSettingsNav(sb *strings.Builder, currentPath string) {
	links := []struct {
		Label string
		Path  string
	}{
		{Label: "Account", Path: routepath.AppSettingsAccount},
		{Label: "Notifications", Path: routepath.AppSettingsNotifications},
		{Label: "AI behavior", Path: routepath.AppSettingsAI},
	}
	sb.WriteString(`<nav class="settings-nav">`)
	for _, link := range links {
		class := "settings-link"
		if link.Path == currentPath {
			class += " settings-link-active"
		}
		sb.WriteString(`<a class="` + class + `" href="` + link.Path + `">` + esc(link.Label) + `</a>`)
	}
	sb.WriteString(`</nav>`)
}

func writeFormError(sb *strings.Builder, message string) {
	if message == "" {
		return
	}
	sb.WriteString(`<p class="form-error" role="alert">` + esc(message) + `</p>`)
}

// AccountSettingsPage renders the account settings form.
func AccountSettingsPage(state AccountSettingsState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<h1>Settings</h1>`)
		writeSettingsNav(sb, routepath.AppSettingsAccount)
		writeFormError(sb, state.ErrorMessage)
		sb.WriteString(`<form class="settings-form" method="post" action="` + routepath.AppSettingsAccount + `">`)
		sb.WriteString(`<label class="field">Display name<input type="text" name="display_name" value="` + attr(state.DisplayName) + `"></label>`)
		sb.WriteString(`<label class="field">Email<input type="email" name="email" value="` + attr(state.Email) + `" readonly></label>`)
		sb.WriteString(`<label class="field">Timezone<input type="text" name="timezone" value="` + attr(state.Timezone) + `" placeholder="UTC"></label>`)
		sb.WriteString(`<button class="button button-primary" type="submit">Save</button>`)
		sb.WriteString(`</form>`)
	})
}

// NotificationSettingsPage renders the notification preferences form.
func NotificationSettingsPage(state NotificationSettingsState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<h1>Settings</h1>`)
		writeSettingsNav(sb, routepath.AppSettingsNotifications)
		writeFormError(sb, state.ErrorMessage)
		sb.WriteString(`<form class="settings-form" method="post" action="` + routepath.AppSettingsNotifications + `">`)
		writeCheckbox(sb, "email_on_assignment", "Email me when a ticket is assigned to me", state.EmailOnAssignment)
		writeCheckbox(sb, "email_on_approval", "Email me when an approval needs my decision", state.EmailOnApproval)
		writeCheckbox(sb, "daily_digest", "Send me a daily summary digest", state.DailyDigest)
		writeCheckbox(sb, "desktop_alerts", "Show desktop alerts for urgent tickets", state.DesktopAlerts)
		sb.WriteString(`<button class="button button-primary" type="submit">Save</button>`)
		sb.WriteString(`</form>`)
	})
}

// AISettingsPage renders the AI behavior preferences form.
func AISettingsPage(state AISettingsState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<h1>Settings</h1>`)
		writeSettingsNav(sb, routepath.AppSettingsAI)
		writeFormError(sb, state.ErrorMessage)
		sb.WriteString(`<form class="settings-form" method="post" action="` + routepath.AppSettingsAI + `">`)
		writeCheckbox(sb, "auto_resolve", "Let the assistant resolve low-risk tickets without review", state.AutoResolveEnabled)
		sb.WriteString(`<label class="field">Confidence threshold<input type="number" name="confidence_threshold" min="0" max="1" step="0.05" value="` + attr(state.ConfidenceThreshold) + `"></label>`)
		writeCheckbox(sb, "require_approval", "Always require approval for refunds and escalations", state.RequireApproval)
		sb.WriteString(`<button class="button button-primary" type="submit">Save</button>`)
		sb.WriteString(`</form>`)
	})
}
