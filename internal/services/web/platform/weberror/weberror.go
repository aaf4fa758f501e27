// Package weberror renders shared app-shell error responses for web modules.
package weberror

import (
	stderrors "errors"
	"net/http"
	"strings"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	apperrors "github.com/helpdeck-io/helpdeck/internal/services/web/platform/errors"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/pagerender"
	webtemplates "github.com/helpdeck-io/helpdeck/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use app error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe error message.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr apperrors.Error
	if stderrors.As(err, &appErr) {
		if message := strings.TrimSpace(appErr.Message); message != "" {
			return message
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// WriteAppError writes an app-shell error page.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, deps module.Dependencies) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	page := pagerender.ModulePage{
		Title:      webtemplates.AppErrorPageTitle(statusCode),
		StatusCode: statusCode,
		Body:       webtemplates.AppErrorState(statusCode),
	}
	if err := pagerender.WriteModulePage(w, r, deps.ResolveViewer, page); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes a module-safe error response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, deps module.Dependencies) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, deps)
		return
	}
	http.Error(w, PublicMessage(err), statusCode)
}
