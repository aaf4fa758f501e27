package templates

import (
	"strings"

	"github.com/a-h/templ"
)

// MetricCard is one headline number on the dashboard.
type MetricCard struct {
	Label string
	Value string
	Hint  string
}

// ActionRow is one automated-action count in the AI performance panel.
type ActionRow struct {
	Action string
	Count  string
}

// DashboardPageState captures everything the dashboard page renders.
type DashboardPageState struct {
	Cards          []MetricCard
	AICards        []MetricCard
	CommonActions  []ActionRow
	MetricsError   string
	AIError        string
	BackendHealthy bool
}

// DashboardPage renders the analytics overview.
func DashboardPage(state DashboardPageState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<h1>Dashboard</h1>`)
		if !state.BackendHealthy {
			sb.WriteString(`<div class="banner banner-warning" role="alert">Support service is currently unreachable. Numbers below may be stale or missing.</div>`)
		}
		writeMetricSection(sb, "Today", state.Cards, state.MetricsError)
		writeMetricSection(sb, "AI performance", state.AICards, state.AIError)
		if len(state.CommonActions) > 0 {
			sb.WriteString(`<section class="panel"><h2>Most common automated actions</h2><table class="data-table"><thead><tr><th>Action</th><th>Count</th></tr></thead><tbody>`)
			for _, row := range state.CommonActions {
				sb.WriteString(`<tr><td>` + esc(row.Action) + `</td><td>` + esc(row.Count) + `</td></tr>`)
			}
			sb.WriteString(`</tbody></table></section>`)
		}
	})
}

func writeMetricSection(sb *strings.Builder, heading string, cards []MetricCard, errorMessage string) {
	sb.WriteString(`<section class="panel"><h2>` + esc(heading) + `</h2>`)
	if errorMessage != "" {
		sb.WriteString(`<p class="panel-error" role="alert">` + esc(errorMessage) + `</p>`)
	}
	if len(cards) > 0 {
		sb.WriteString(`<div class="metric-grid">`)
		for _, card := range cards {
			sb.WriteString(`<div class="metric-card"><span class="metric-value">` + esc(card.Value) + `</span>`)
			sb.WriteString(`<span class="metric-label">` + esc(card.Label) + `</span>`)
			if card.Hint != "" {
				sb.WriteString(`<span class="metric-hint">` + esc(card.Hint) + `</span>`)
			}
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</section>`)
}
