// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	flashnotice "github.com/helpdeck-io/helpdeck/internal/services/web/platform/flash"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/httpx"
	webtemplates "github.com/helpdeck-io/helpdeck/internal/services/web/templates"
)

// ModulePage describes a signed-in app page response.
type ModulePage struct {
	Title      string
	StatusCode int
	Body       templ.Component
}

// WriteModulePage writes an app page inside the shared shell. Pages buffer
// before writing so render failures never leak half a document.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolveViewer module.ResolveViewer, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}

	pageCtx := webtemplates.PageContext{}
	if r != nil && r.URL != nil {
		pageCtx.CurrentPath = r.URL.Path
	}
	if resolveViewer != nil {
		viewer := resolveViewer(r)
		pageCtx.ViewerName = viewer.DisplayName
		pageCtx.ViewerEmail = viewer.Email
	}
	if notice, ok := flashnotice.ReadAndClear(w, r); ok {
		pageCtx.Toast = &webtemplates.AppToast{Kind: string(notice.Kind), Message: notice.Message}
	}

	var buf bytes.Buffer
	layout := webtemplates.AppLayout(page.Title, pageCtx, page.Body)
	if err := layout.Render(httpx.RequestContext(r), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// WritePublicPage writes an unauthenticated page using the public layout.
func WritePublicPage(w http.ResponseWriter, r *http.Request, title string, statusCode int, body templ.Component) {
	if w == nil {
		return
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	var buf bytes.Buffer
	if err := webtemplates.PublicLayout(title, body).Render(httpx.RequestContext(r), &buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}
