package settings

import (
	"net/http"

	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSettings, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.SettingsPrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSettingsAccount, h.handleAccount)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppSettingsAccount, h.handleAccountSave)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSettingsNotifications, h.handleNotifications)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppSettingsNotifications, h.handleNotificationsSave)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSettingsAI, h.handleAI)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppSettingsAI, h.handleAISave)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSettingsRestPattern, h.handleNotFound)
}
