package tickets

import (
	"net/http"

	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTickets, h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.TicketsPrefix+"{$}", h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTicketsNew, h.handleNewForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTicketsCreate, h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTicketPattern, h.handleDetail)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTicketApprovalPattern, h.handleApproval)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTicketRestPattern, h.handleNotFound)
}
