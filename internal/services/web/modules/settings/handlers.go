package settings

import (
	"net/http"
	"strconv"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	flashnotice "github.com/helpdeck-io/helpdeck/internal/services/web/platform/flash"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/httpx"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/pagerender"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/requestmeta"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/weberror"
	"github.com/helpdeck-io/helpdeck/internal/services/web/prefs"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
	"github.com/helpdeck-io/helpdeck/internal/services/web/templates"
)

type handlers struct {
	service service
	deps    module.Dependencies
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{service: s, deps: deps}
}

func (h handlers) userID(r *http.Request) string {
	if h.deps.ResolveUserID == nil {
		return ""
	}
	return h.deps.ResolveUserID(r)
}

func (h handlers) viewerEmail(r *http.Request) string {
	if h.deps.ResolveViewer == nil {
		return ""
	}
	return h.deps.ResolveViewer(r).Email
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routepath.AppSettingsAccount, http.StatusFound)
}

func (h handlers) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.account(httpx.RequestContext(r), h.userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderAccount(w, r, accountState(account, h.viewerEmail(r), ""), http.StatusOK)
}

func (h handlers) handleAccountSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, err)
		return
	}
	account := prefs.Account{
		DisplayName: r.PostFormValue("display_name"),
		Email:       h.viewerEmail(r),
		Timezone:    r.PostFormValue("timezone"),
	}
	if err := h.service.saveAccount(httpx.RequestContext(r), h.userID(r), account); err != nil {
		h.renderAccount(w, r, accountState(account, h.viewerEmail(r), weberror.PublicMessage(err)), http.StatusUnprocessableEntity)
		return
	}
	flashnotice.Write(w, r, flashnotice.Success("Account settings saved."), requestmeta.SchemePolicy{})
	http.Redirect(w, r, routepath.AppSettingsAccount, http.StatusSeeOther)
}

func (h handlers) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.notifications(httpx.RequestContext(r), h.userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderNotifications(w, r, notificationState(notifications, ""), http.StatusOK)
}

func (h handlers) handleNotificationsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, err)
		return
	}
	notifications := prefs.Notifications{
		EmailOnAssignment: r.PostFormValue("email_on_assignment") == "on",
		EmailOnApproval:   r.PostFormValue("email_on_approval") == "on",
		DailyDigest:       r.PostFormValue("daily_digest") == "on",
		DesktopAlerts:     r.PostFormValue("desktop_alerts") == "on",
	}
	if err := h.service.saveNotifications(httpx.RequestContext(r), h.userID(r), notifications); err != nil {
		h.renderNotifications(w, r, notificationState(notifications, weberror.PublicMessage(err)), http.StatusUnprocessableEntity)
		return
	}
	flashnotice.Write(w, r, flashnotice.Success("Notification settings saved."), requestmeta.SchemePolicy{})
	http.Redirect(w, r, routepath.AppSettingsNotifications, http.StatusSeeOther)
}

func (h handlers) handleAI(w http.ResponseWriter, r *http.Request) {
	behavior, err := h.service.aiBehavior(httpx.RequestContext(r), h.userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderAI(w, r, aiState(behavior, formatThreshold(behavior.ConfidenceThreshold), ""), http.StatusOK)
}

func (h handlers) handleAISave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, err)
		return
	}
	behavior := prefs.AIBehavior{
		AutoResolveEnabled: r.PostFormValue("auto_resolve") == "on",
		RequireApproval:    r.PostFormValue("require_approval") == "on",
	}
	rawThreshold := r.PostFormValue("confidence_threshold")
	if err := h.service.saveAIBehavior(httpx.RequestContext(r), h.userID(r), rawThreshold, behavior); err != nil {
		h.renderAI(w, r, aiState(behavior, rawThreshold, weberror.PublicMessage(err)), http.StatusUnprocessableEntity)
		return
	}
	flashnotice.Write(w, r, flashnotice.Success("Assistant settings saved."), requestmeta.SchemePolicy{})
	http.Redirect(w, r, routepath.AppSettingsAI, http.StatusSeeOther)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, h.deps)
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, h.deps)
}

func (h handlers) renderAccount(w http.ResponseWriter, r *http.Request, state templates.AccountSettingsState, statusCode int) {
	if err := pagerender.WriteModulePage(w, r, h.deps.ResolveViewer, pagerender.ModulePage{
		Title:      "Settings",
		StatusCode: statusCode,
		Body:       templates.AccountSettingsPage(state),
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) renderNotifications(w http.ResponseWriter, r *http.Request, state templates.NotificationSettingsState, statusCode int) {
	if err := pagerender.WriteModulePage(w, r, h.deps.ResolveViewer, pagerender.ModulePage{
		Title:      "Settings",
		StatusCode: statusCode,
		Body:       templates.NotificationSettingsPage(state),
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) renderAI(w http.ResponseWriter, r *http.Request, state templates.AISettingsState, statusCode int) {
	if err := pagerender.WriteModulePage(w, r, h.deps.ResolveViewer, pagerender.ModulePage{
		Title:      "Settings",
		StatusCode: statusCode,
		Body:       templates.AISettingsPage(state),
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func accountState(account prefs.Account, viewerEmail string, errorMessage string) templates.AccountSettingsState {
	email := account.Email
	if email == "" {
		email = viewerEmail
	}
	return templates.AccountSettingsState{
		DisplayName:  account.DisplayName,
		Email:        email,
		Timezone:     account.Timezone,
		ErrorMessage: errorMessage,
	}
}

func notificationState(notifications prefs.Notifications, errorMessage string) templates.NotificationSettingsState {
	return templates.NotificationSettingsState{
		EmailOnAssignment: notifications.EmailOnAssignment,
		EmailOnApproval:   notifications.EmailOnApproval,
		DailyDigest:       notifications.DailyDigest,
		DesktopAlerts:     notifications.DesktopAlerts,
		ErrorMessage:      errorMessage,
	}
}

func aiState(behavior prefs.AIBehavior, rawThreshold string, errorMessage string) templates.AISettingsState {
	return templates.AISettingsState{
		AutoResolveEnabled:  behavior.AutoResolveEnabled,
		ConfidenceThreshold: rawThreshold,
		RequireApproval:     behavior.RequireApproval,
		ErrorMessage:        errorMessage,
	}
}

func formatThreshold(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
