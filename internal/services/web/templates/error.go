package templates

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// AppErrorPageTitle returns the browser page title for app error pages.
func AppErrorPageTitle(statusCode int) string {
	if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
		return "Page not found"
	}
	return "Something went wrong"
}

// AppErrorState renders the in-shell error body for app pages.
func AppErrorState(statusCode int) templ.Component {
	return component(func(sb *strings.Builder) {
		heading := "Something went wrong"
		message := "The dashboard hit an unexpected error. Try again in a moment."
		if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
			heading = "Page not found"
			message = "The page you are looking for does not exist or was moved."
		}
		sb.WriteString(`<section class="error-state"><h1>` + esc(heading) + `</h1>`)
		sb.WriteString(`<p>` + esc(message) + `</p>`)
		sb.WriteString(`<a class="button" href="` + routepath.AppDashboard + `">Back to dashboard</a>`)
		sb.WriteString(`</section>`)
	})
}

func normalizeAppErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
