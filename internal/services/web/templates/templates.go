// Package templates renders the web UI as templ components.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// component adapts a string builder function into a templ.Component.
func component(build func(sb *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		build(&sb)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func esc(value string) string {
	return templ.EscapeString(value)
}

// attr escapes a value for use inside a double-quoted HTML attribute.
func attr(value string) string {
	return strings.ReplaceAll(templ.EscapeString(value), `"`, "&#34;")
}

func writeOption(sb *strings.Builder, value string, label string, selected bool) {
	sb.WriteString(`<option value="` + attr(value) + `"`)
	if selected {
		sb.WriteString(` selected`)
	}
	sb.WriteString(`>` + esc(label) + `</option>`)
}

func writeCheckbox(sb *strings.Builder, name string, label string, checked bool) {
	sb.WriteString(`<label class="field field-checkbox"><input type="checkbox" name="` + attr(name) + `" value="on"`)
	if checked {
		sb.WriteString(` checked`)
	}
	sb.WriteString(`> ` + esc(label) + `</label>`)
}
