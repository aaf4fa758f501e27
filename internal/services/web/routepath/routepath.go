// Package routepath stores canonical HTTP paths for web modules.
package routepath

import "net/url"

const (
	Root         = "/"
	Login        = "/login"
	Logout       = "/logout"
	Health       = "/up"
	AuthPrefix   = "/auth/"
	AuthCallback = "/auth/callback"

	AppPrefix       = "/app/"
	AppDashboard    = "/app/dashboard"
	DashboardPrefix = "/app/dashboard/"

	AppTickets               = "/app/tickets"
	TicketsPrefix            = "/app/tickets/"
	AppTicketsNew            = "/app/tickets/new"
	AppTicketsCreate         = "/app/tickets/create"
	AppTicketPattern         = TicketsPrefix + "{ticketID}"
	AppTicketRestPattern     = TicketsPrefix + "{ticketID}/{rest...}"
	AppTicketApprovalPattern = TicketsPrefix + "{ticketID}/approvals/{approvalID}"

	AppSettings              = "/app/settings"
	SettingsPrefix           = "/app/settings/"
	AppSettingsAccount       = "/app/settings/account"
	AppSettingsNotifications = "/app/settings/notifications"
	AppSettingsAI            = "/app/settings/ai"
	AppSettingsRestPattern   = SettingsPrefix + "{rest...}"
)

// AppTicket returns the detail path for one ticket.
func AppTicket(ticketID string) string {
	return TicketsPrefix + url.PathEscape(ticketID)
}

// AppTicketApproval returns the decision path for one approval on a ticket.
func AppTicketApproval(ticketID string, approvalID string) string {
	return TicketsPrefix + url.PathEscape(ticketID) + "/approvals/" + url.PathEscape(approvalID)
}

// AppTicketsFiltered returns the ticket list path carrying filter state.
func AppTicketsFiltered(search string, status string, priority string) string {
	values := url.Values{}
	if search != "" {
		values.Set("q", search)
	}
	if status != "" {
		values.Set("status", status)
	}
	if priority != "" {
		values.Set("priority", priority)
	}
	if len(values) == 0 {
		return AppTickets
	}
	return AppTickets + "?" + values.Encode()
}
