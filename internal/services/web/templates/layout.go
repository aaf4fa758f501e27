package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// AppName is the product name rendered in chrome and titles.
const AppName = "HelpDeck"

// PageContext provides shared layout context for pages.
type PageContext struct {
	CurrentPath string
	ViewerName  string
	ViewerEmail string
	Toast       *AppToast
}

// AppToast is a one-time notice rendered at the top of an app page.
type AppToast struct {
	Kind    string
	Message string
}

type navItem struct {
	Label  string
	Path   string
	Prefix string
}

var appNav = []navItem{
	{Label: "Dashboard", Path: routepath.AppDashboard, Prefix: routepath.DashboardPrefix},
	{Label: "Tickets", Path: routepath.AppTickets, Prefix: routepath.TicketsPrefix},
	{Label: "Settings", Path: routepath.AppSettings, Prefix: routepath.SettingsPrefix},
}

func navIsActive(item navItem, currentPath string) bool {
	return currentPath == item.Path || strings.HasPrefix(currentPath, item.Prefix)
}

func pageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

func writeDocumentHead(sb *strings.Builder, title string) {
	sb.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	sb.WriteString(`<title>` + esc(pageTitle(title)) + `</title>`)
	sb.WriteString(`<link rel="stylesheet" href="/static/app.css">`)
	sb.WriteString(`</head>`)
}

func writeToast(sb *strings.Builder, toast *AppToast) {
	if toast == nil || strings.TrimSpace(toast.Message) == "" {
		return
	}
	sb.WriteString(`<div class="toast toast-` + attr(toast.Kind) + `" role="status">` + esc(toast.Message) + `</div>`)
}

// AppLayout wraps body in the signed-in app shell with navigation and chrome.
func AppLayout(title string, page PageContext, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		writeDocumentHead(&sb, title)
		sb.WriteString(`<body class="app">`)
		sb.WriteString(`<header class="app-header"><a class="brand" href="` + routepath.AppDashboard + `">` + AppName + `</a>`)
		sb.WriteString(`<nav class="app-nav">`)
		for _, item := range appNav {
			class := "nav-link"
			if navIsActive(item, page.CurrentPath) {
				class += " nav-link-active"
			}
			sb.WriteString(`<a class="` + class + `" href="` + item.Path + `">` + esc(item.Label) + `</a>`)
		}
		sb.WriteString(`</nav>`)
		sb.WriteString(`<div class="app-viewer">`)
		if page.ViewerName != "" {
			sb.WriteString(`<span class="viewer-name">` + esc(page.ViewerName) + `</span>`)
		}
		sb.WriteString(`<form method="post" action="` + routepath.Logout + `"><button class="link-button" type="submit">Sign out</button></form>`)
		sb.WriteString(`</div></header>`)
		sb.WriteString(`<main class="app-main">`)
		writeToast(&sb, page.Toast)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// PublicLayout wraps body in the unauthenticated shell used by marketing and
// sign-in pages.
func PublicLayout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		writeDocumentHead(&sb, title)
		sb.WriteString(`<body class="public"><main class="public-main">`)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
