package tickets

import (
	"net/http"
	"strings"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	flashnotice "github.com/helpdeck-io/helpdeck/internal/services/web/platform/flash"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/httpx"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/pagerender"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/requestmeta"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/weberror"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
	"github.com/helpdeck-io/helpdeck/internal/services/web/templates"
	"github.com/helpdeck-io/helpdeck/internal/support"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

type handlers struct {
	service *service
	deps    module.Dependencies
}

func newHandlers(s *service, deps module.Dependencies) handlers {
	return handlers{service: s, deps: deps}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	filter := support.FilterQuery{
		Search:   r.URL.Query().Get("q"),
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}
	state := templates.TicketListPageState{Filter: filterState(filter)}

	listing, err := h.service.listTickets(httpx.RequestContext(r), filter)
	if err != nil {
		state.ErrorMessage = weberror.PublicMessage(err)
	} else {
		state.Rows = ticketRows(listing.Tickets)
		state.ShownCount = len(listing.Tickets)
		state.TotalKnown = listing.TotalKnown
		if state.TotalKnown < state.ShownCount {
			state.TotalKnown = state.ShownCount
		}
	}

	if err := pagerender.WriteModulePage(w, r, h.deps.ResolveViewer, pagerender.ModulePage{
		Title: "Tickets",
		Body:  templates.TicketListPage(state),
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.service.getTicket(httpx.RequestContext(r), r.PathValue("ticketID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := pagerender.WriteModulePage(w, r, h.deps.ResolveViewer, pagerender.ModulePage{
		Title: ticket.ID,
		Body:  templates.TicketDetailPage(detailPageState(ticket)),
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) handleNewForm(w http.ResponseWriter, r *http.Request) {
	h.renderNewForm(w, r, templates.TicketNewPageState{}, http.StatusOK)
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, err)
		return
	}
	request := supportapi.QueryRequest{
		CustomerEmail: r.PostFormValue("customer_email"),
		Query:         r.PostFormValue("query"),
		Subject:       r.PostFormValue("subject"),
		Source:        "dashboard",
	}
	userID := ""
	if h.deps.ResolveUserID != nil {
		userID = h.deps.ResolveUserID(r)
	}

	receipt, err := h.service.submitQuery(httpx.RequestContext(r), userID, request)
	if err != nil {
		h.renderNewForm(w, r, templates.TicketNewPageState{
			CustomerEmail: request.CustomerEmail,
			Subject:       request.Subject,
			Query:         request.Query,
			ErrorMessage:  weberror.PublicMessage(err),
		}, http.StatusUnprocessableEntity)
		return
	}

	message := "Ticket " + receipt.TicketID + " created."
	if receipt.RequiresHumanApproval {
		message += " An approval is waiting for review."
	}
	flashnotice.Write(w, r, flashnotice.Success(message), requestmeta.SchemePolicy{})
	http.Redirect(w, r, routepath.AppTicket(receipt.TicketID), http.StatusSeeOther)
}

func (h handlers) handleApproval(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, err)
		return
	}
	ticketID := r.PathValue("ticketID")
	approvalID := r.PathValue("approvalID")
	approved := strings.EqualFold(r.PostFormValue("decision"), "approve")

	receipt, err := h.service.decideApproval(httpx.RequestContext(r), ticketID, approvalID, approved, r.PostFormValue("comments"))
	if err != nil {
		flashnotice.Write(w, r, flashnotice.Error(weberror.PublicMessage(err)), requestmeta.SchemePolicy{})
		http.Redirect(w, r, routepath.AppTicket(ticketID), http.StatusSeeOther)
		return
	}

	outcome := "rejected"
	if receipt.Approved {
		outcome = "approved"
	}
	flashnotice.Write(w, r, flashnotice.Success("Suggested action "+outcome+"."), requestmeta.SchemePolicy{})
	http.Redirect(w, r, routepath.AppTicket(ticketID), http.StatusSeeOther)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, h.deps)
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, h.deps)
}

func (h handlers) renderNewForm(w http.ResponseWriter, r *http.Request, state templates.TicketNewPageState, statusCode int) {
	if err := pagerender.WriteModulePage(w, r, h.deps.ResolveViewer, pagerender.ModulePage{
		Title:      "New ticket",
		StatusCode: statusCode,
		Body:       templates.TicketNewPage(state),
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func filterState(filter support.FilterQuery) templates.FilterState {
	state := templates.FilterState{
		Search:   filter.Search,
		Status:   filter.Status,
		Priority: filter.Priority,
	}
	for _, status := range support.KnownStatuses() {
		state.StatusOptions = append(state.StatusOptions, string(status))
	}
	for _, priority := range support.KnownPriorities() {
		state.PriorityOption = append(state.PriorityOption, string(priority))
	}
	return state
}

func ticketRows(tickets []support.Ticket) []templates.TicketRow {
	rows := make([]templates.TicketRow, 0, len(tickets))
	for _, ticket := range tickets {
		rows = append(rows, templates.TicketRow{
			ID:            ticket.ID,
			Subject:       ticket.Subject,
			CustomerEmail: ticket.SearchEmail(),
			Status:        string(ticket.Status),
			Priority:      string(ticket.Priority),
			CreatedAt:     templates.FormatTimestamp(ticket.CreatedAt),
			DetailPath:    routepath.AppTicket(ticket.ID),
		})
	}
	return rows
}

func detailPageState(ticket support.Ticket) templates.TicketDetailPageState {
	state := templates.TicketDetailPageState{
		ID:            ticket.ID,
		Subject:       ticket.Subject,
		CustomerEmail: ticket.SearchEmail(),
		Status:        string(ticket.Status),
		Priority:      string(ticket.Priority),
		Category:      ticket.Category,
		CreatedAt:     templates.FormatTimestamp(ticket.CreatedAt),
	}
	if ticket.Customer != nil {
		state.CustomerName = ticket.Customer.Name
	}
	if ticket.UpdatedAt != nil {
		state.UpdatedAt = templates.FormatTimestamp(*ticket.UpdatedAt)
	}
	for _, entry := range ticket.Conversations {
		state.Conversation = append(state.Conversation, templates.ConversationEntry{
			Role:      string(entry.Role),
			Message:   entry.Content,
			Timestamp: templates.FormatTimestamp(entry.CreatedAt),
		})
	}
	for _, approval := range ticket.Approvals {
		card := templates.ApprovalCard{
			ID:           approval.ID,
			Action:       approval.ActionType,
			Reason:       approval.AISuggestion,
			Status:       string(approval.Status),
			Pending:      approval.Status == support.ApprovalPending,
			DecisionPath: routepath.AppTicketApproval(ticket.ID, approval.ID),
			RequestedAt:  templates.FormatTimestamp(approval.CreatedAt),
		}
		if approval.DecidedAt != nil {
			card.DecidedAt = templates.FormatTimestamp(*approval.DecidedAt)
		}
		state.Approvals = append(state.Approvals, card)
	}
	return state
}
