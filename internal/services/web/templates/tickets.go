package templates

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// TicketRow is one row in the ticket list.
type TicketRow struct {
	ID            string
	Subject       string
	CustomerEmail string
	Status        string
	Priority      string
	CreatedAt     string
	DetailPath    string
}

// FilterState carries the current list filter selections.
type FilterState struct {
	Search         string
	Status         string
	Priority       string
	StatusOptions  []string
	PriorityOption []string
}

// TicketListPageState captures ticket list rendering state.
type TicketListPageState struct {
	Filter       FilterState
	Rows         []TicketRow
	TotalKnown   int
	ShownCount   int
	ErrorMessage string
}

// TicketListPage renders the filterable ticket table.
func TicketListPage(state TicketListPageState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<div class="page-heading"><h1>Tickets</h1>`)
		sb.WriteString(`<a class="button button-primary" href="` + routepath.AppTicketsNew + `">New ticket</a></div>`)
		writeFilterForm(sb, state.Filter)
		if state.ErrorMessage != "" {
			sb.WriteString(`<p class="panel-error" role="alert">` + esc(state.ErrorMessage) + `</p>`)
			return
		}
		if len(state.Rows) == 0 {
			sb.WriteString(`<p class="empty-state">No tickets match the current filters.</p>`)
			return
		}
		sb.WriteString(`<p class="list-summary">Showing ` + FormatCount(state.ShownCount) + ` of ` + FormatCount(state.TotalKnown) + ` tickets</p>`)
		sb.WriteString(`<table class="data-table"><thead><tr><th>Ticket</th><th>Subject</th><th>Customer</th><th>Status</th><th>Priority</th><th>Created</th></tr></thead><tbody>`)
		for _, row := range state.Rows {
			sb.WriteString(`<tr>`)
			sb.WriteString(`<td><a href="` + attr(row.DetailPath) + `">` + esc(row.ID) + `</a></td>`)
			sb.WriteString(`<td>` + esc(row.Subject) + `</td>`)
			sb.WriteString(`<td>` + esc(row.CustomerEmail) + `</td>`)
			sb.WriteString(`<td><span class="badge badge-status-` + attr(strings.ToLower(row.Status)) + `">` + esc(FormatLabel(row.Status)) + `</span></td>`)
			sb.WriteString(`<td><span class="badge badge-priority-` + attr(strings.ToLower(row.Priority)) + `">` + esc(FormatLabel(row.Priority)) + `</span></td>`)
			sb.WriteString(`<td>` + esc(row.CreatedAt) + `</td>`)
			sb.WriteString(`</tr>`)
		}
		sb.WriteString(`</tbody></table>`)
	})
}

func writeFilterForm(sb *strings.Builder, filter FilterState) {
	sb.WriteString(`<form class="filter-bar" method="get" action="` + routepath.AppTickets + `">`)
	sb.WriteString(`<input class="filter-search" type="search" name="q" placeholder="Search id, subject, or email" value="` + attr(filter.Search) + `">`)
	sb.WriteString(`<select name="status" aria-label="Status">`)
	writeOption(sb, "all", "All statuses", filter.Status == "" || strings.EqualFold(filter.Status, "all"))
	for _, status := range filter.StatusOptions {
		writeOption(sb, status, FormatLabel(status), strings.EqualFold(filter.Status, status))
	}
	sb.WriteString(`</select>`)
	sb.WriteString(`<select name="priority" aria-label="Priority">`)
	writeOption(sb, "all", "All priorities", filter.Priority == "" || strings.EqualFold(filter.Priority, "all"))
	for _, priority := range filter.PriorityOption {
		writeOption(sb, priority, FormatLabel(priority), strings.EqualFold(filter.Priority, priority))
	}
	sb.WriteString(`</select>`)
	sb.WriteString(`<button class="button" type="submit">Filter</button>`)
	sb.WriteString(`</form>`)
}

// ConversationEntry is one message in the ticket thread.
type ConversationEntry struct {
	Role      string
	Message   string
	Timestamp string
}

// ApprovalCard is one approval request rendered on the detail page.
type ApprovalCard struct {
	ID            string
	Action        string
	Reason        string
	Status        string
	Pending       bool
	DecisionPath  string
	RequestedAt   string
	DecidedAt     string
	DecisionError string
}

// TicketDetailPageState captures ticket detail rendering state.
type TicketDetailPageState struct {
	ID            string
	Subject       string
	CustomerName  string
	CustomerEmail string
	Status        string
	Priority      string
	Category      string
	CreatedAt     string
	UpdatedAt     string
	Conversation  []ConversationEntry
	Approvals     []ApprovalCard
}

// TicketDetailPage renders one ticket with its thread and approvals.
func TicketDetailPage(state TicketDetailPageState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<nav class="breadcrumbs"><a href="` + routepath.AppTickets + `">Tickets</a> / <span>` + esc(state.ID) + `</span></nav>`)
		sb.WriteString(`<div class="page-heading"><h1>` + esc(state.Subject) + `</h1>`)
		sb.WriteString(`<span class="badge badge-status-` + attr(strings.ToLower(state.Status)) + `">` + esc(FormatLabel(state.Status)) + `</span>`)
		sb.WriteString(`<span class="badge badge-priority-` + attr(strings.ToLower(state.Priority)) + `">` + esc(FormatLabel(state.Priority)) + `</span></div>`)

		sb.WriteString(`<dl class="ticket-meta">`)
		writeMetaItem(sb, "Customer", state.CustomerName)
		writeMetaItem(sb, "Email", state.CustomerEmail)
		writeMetaItem(sb, "Category", FormatLabel(state.Category))
		writeMetaItem(sb, "Created", state.CreatedAt)
		writeMetaItem(sb, "Updated", state.UpdatedAt)
		sb.WriteString(`</dl>`)

		for _, approval := range state.Approvals {
			writeApprovalCard(sb, approval)
		}

		sb.WriteString(`<section class="panel"><h2>Conversation</h2>`)
		if len(state.Conversation) == 0 {
			sb.WriteString(`<p class="empty-state">No messages yet.</p>`)
		}
		for _, entry := range state.Conversation {
			role := strings.ToLower(entry.Role)
			sb.WriteString(`<article class="message message-` + attr(role) + `">`)
			sb.WriteString(`<header><span class="message-role">` + esc(FormatLabel(entry.Role)) + `</span>`)
			sb.WriteString(`<time>` + esc(entry.Timestamp) + `</time></header>`)
			sb.WriteString(`<p>` + esc(entry.Message) + `</p>`)
			sb.WriteString(`</article>`)
		}
		sb.WriteString(`</section>`)
	})
}

func writeMetaItem(sb *strings.Builder, label string, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	sb.WriteString(`<div><dt>` + esc(label) + `</dt><dd>` + esc(value) + `</dd></div>`)
}

func writeApprovalCard(sb *strings.Builder, approval ApprovalCard) {
	sb.WriteString(`<section class="panel approval approval-` + attr(strings.ToLower(approval.Status)) + `">`)
	sb.WriteString(`<h2>Approval requested</h2>`)
	sb.WriteString(`<p class="approval-action"><strong>` + esc(FormatLabel(approval.Action)) + `</strong></p>`)
	if approval.Reason != "" {
		sb.WriteString(`<p class="approval-reason">` + esc(approval.Reason) + `</p>`)
	}
	if approval.DecisionError != "" {
		sb.WriteString(`<p class="panel-error" role="alert">` + esc(approval.DecisionError) + `</p>`)
	}
	if approval.Pending {
		sb.WriteString(`<form class="approval-decision" method="post" action="` + attr(approval.DecisionPath) + `">`)
		sb.WriteString(`<input type="hidden" name="approval_id" value="` + attr(approval.ID) + `">`)
		sb.WriteString(`<textarea name="comments" placeholder="Optional comments"></textarea>`)
		sb.WriteString(`<button class="button button-primary" type="submit" name="decision" value="approve">Approve</button>`)
		sb.WriteString(`<button class="button button-danger" type="submit" name="decision" value="reject">Reject</button>`)
		sb.WriteString(`</form>`)
	} else {
		sb.WriteString(`<p class="approval-outcome">` + esc(FormatLabel(approval.Status)))
		if approval.DecidedAt != "" {
			sb.WriteString(` on ` + esc(approval.DecidedAt))
		}
		sb.WriteString(`</p>`)
	}
	sb.WriteString(`</section>`)
}

// TicketNewPageState captures the new-ticket form state.
type TicketNewPageState struct {
	CustomerEmail string
	Subject       string
	Query         string
	ErrorMessage  string
	Submitting    bool
}

// TicketNewPage renders the query submission form.
func TicketNewPage(state TicketNewPageState) templ.Component {
	return component(func(sb *strings.Builder) {
		sb.WriteString(`<nav class="breadcrumbs"><a href="` + routepath.AppTickets + `">Tickets</a> / <span>New</span></nav>`)
		sb.WriteString(`<h1>New ticket</h1>`)
		if state.ErrorMessage != "" {
			sb.WriteString(`<p class="form-error" role="alert">` + esc(state.ErrorMessage) + `</p>`)
		}
		sb.WriteString(`<form class="ticket-form" method="post" action="` + routepath.AppTicketsCreate + `">`)
		sb.WriteString(`<label class="field">Customer email<input type="email" name="customer_email" value="` + attr(state.CustomerEmail) + `" required></label>`)
		sb.WriteString(`<label class="field">Subject<input type="text" name="subject" value="` + attr(state.Subject) + `"></label>`)
		sb.WriteString(`<label class="field">Customer query<textarea name="query" required>` + esc(state.Query) + `</textarea></label>`)
		if state.Submitting {
			sb.WriteString(`<button class="button button-primary" type="submit" disabled>Submitting&hellip;</button>`)
		} else {
			sb.WriteString(`<button class="button button-primary" type="submit">Submit</button>`)
		}
		sb.WriteString(`</form>`)
	})
}
