package dashboard

import (
	"net/http"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/httpx"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/pagerender"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/weberror"
	webtemplates "github.com/helpdeck-io/helpdeck/internal/services/web/templates"
)

type handlers struct {
	service service
	deps    module.Dependencies
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{service: s, deps: deps}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	overview := h.service.loadOverview(httpx.RequestContext(r))
	if err := pagerender.WriteModulePage(w, r, h.deps.ResolveViewer, pagerender.ModulePage{
		Title: "Dashboard",
		Body:  webtemplates.DashboardPage(overviewPageState(overview)),
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, h.deps)
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, h.deps)
}

func overviewPageState(overview Overview) webtemplates.DashboardPageState {
	state := webtemplates.DashboardPageState{
		MetricsError:   overview.MetricsError,
		AIError:        overview.AIError,
		BackendHealthy: overview.BackendHealthy,
	}
	if overview.MetricsError == "" {
		metrics := overview.Metrics
		state.Cards = []webtemplates.MetricCard{
			{Label: "Total tickets", Value: webtemplates.FormatCount(metrics.TotalTickets)},
			{Label: "Tickets today", Value: webtemplates.FormatCount(metrics.TicketsToday)},
			{Label: "Open tickets", Value: webtemplates.FormatCount(metrics.OpenTickets)},
			{Label: "Pending approvals", Value: webtemplates.FormatCount(metrics.PendingApprovals)},
			{Label: "AI resolved", Value: webtemplates.FormatCount(metrics.AIResolvedTickets)},
			{Label: "Avg response time", Value: webtemplates.FormatMinutes(metrics.AvgResponseTimeMinutes)},
			{Label: "Customer satisfaction", Value: webtemplates.FormatScore(metrics.CustomerSatisfaction), Hint: "out of 5"},
			{Label: "AI automation rate", Value: webtemplates.FormatPercent(metrics.AIAutomationRate)},
		}
	}
	if overview.AIError == "" {
		ai := overview.AI
		state.AICards = []webtemplates.MetricCard{
			{Label: "AI conversations", Value: webtemplates.FormatCount(ai.AIConversations)},
			{Label: "Successful automations", Value: webtemplates.FormatCount(ai.SuccessfulAutomations)},
			{Label: "Failed automations", Value: webtemplates.FormatCount(ai.FailedAutomations)},
			{Label: "Automation success rate", Value: webtemplates.FormatPercent(ai.AutomationSuccessRate)},
			{Label: "Avg confidence", Value: webtemplates.FormatScore(ai.AvgConfidenceScore)},
		}
		for _, action := range ai.MostCommonActions {
			state.CommonActions = append(state.CommonActions, webtemplates.ActionRow{
				Action: webtemplates.FormatLabel(action.Action),
				Count:  webtemplates.FormatCount(action.Count),
			})
		}
	}
	return state
}
