package tickets

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
	"github.com/helpdeck-io/helpdeck/internal/support"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

func newTestMux(gateway TicketGateway) *http.ServeMux {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(gateway), module.Dependencies{}))
	return mux
}

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, newHandlers(newService(nil), module.Dependencies{}))
}

func TestRegisterRoutesPathAndMethodContracts(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeGateway{ticket: support.Ticket{ID: "TKT-1", Subject: "Login"}})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "list get", method: http.MethodGet, path: routepath.AppTickets, wantStatus: http.StatusOK},
		{name: "list prefix get", method: http.MethodGet, path: routepath.TicketsPrefix, wantStatus: http.StatusOK},
		{name: "new form get", method: http.MethodGet, path: routepath.AppTicketsNew, wantStatus: http.StatusOK},
		{name: "detail get", method: http.MethodGet, path: "/app/tickets/TKT-1", wantStatus: http.StatusOK},
		{name: "detail post rejected", method: http.MethodPost, path: "/app/tickets/TKT-1", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown nested path", method: http.MethodGet, path: "/app/tickets/TKT-1/extra", wantStatus: http.StatusNotFound},
		{name: "approval get rejected", method: http.MethodGet, path: "/app/tickets/TKT-1/approvals/apr-1", wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestListRendersFilteredRows(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeGateway{list: supportapi.TicketList{
		Tickets: []support.Ticket{
			{ID: "TKT-1", Subject: "Cannot log in", Status: support.StatusOpen, Priority: support.PriorityHigh},
			{ID: "TKT-2", Subject: "Billing", Status: support.StatusResolved, Priority: support.PriorityLow},
		},
		Total: 2,
	}})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.AppTickets+"?q=billing", nil))
	body := rr.Body.String()
	if strings.Contains(body, "TKT-1") {
		t.Fatal("filtered-out ticket still rendered")
	}
	if !strings.Contains(body, "TKT-2") {
		t.Fatal("matching ticket missing")
	}
}

func TestCreateRedirectsToNewTicket(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeGateway{receipt: supportapi.QueryReceipt{TicketID: "TKT-77"}})

	form := url.Values{}
	form.Set("customer_email", "a@x.com")
	form.Set("query", "I cannot log in")
	req := httptest.NewRequest(http.MethodPost, routepath.AppTicketsCreate, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/app/tickets/TKT-77" {
		t.Fatalf("Location = %q, want /app/tickets/TKT-77", got)
	}
}

func TestCreateRerendersFormOnValidationError(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeGateway{})

	form := url.Values{}
	form.Set("customer_email", "not-an-email")
	form.Set("query", "help")
	req := httptest.NewRequest(http.MethodPost, routepath.AppTicketsCreate, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "valid customer email") {
		t.Fatal("validation message missing from re-rendered form")
	}
	if !strings.Contains(rr.Body.String(), `value="not-an-email"`) {
		t.Fatal("submitted values must be preserved on error")
	}
}

func TestApprovalPostRedirectsWithFlash(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{approvalReceipt: supportapi.ApprovalReceipt{TicketID: "TKT-9", Approved: true}}
	mux := newTestMux(gateway)

	form := url.Values{}
	form.Set("decision", "approve")
	form.Set("comments", "looks right")
	req := httptest.NewRequest(http.MethodPost, "/app/tickets/TKT-9/approvals/apr-1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/app/tickets/TKT-9" {
		t.Fatalf("Location = %q", got)
	}
	if gateway.lastDecision.ApprovalID != "apr-1" || !gateway.lastDecision.Approved {
		t.Fatalf("decision = %+v", gateway.lastDecision)
	}
	if len(rr.Result().Cookies()) == 0 {
		t.Fatal("flash cookie missing")
	}
}

func TestDetailNotFoundRendersErrorPage(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeGateway{ticketErr: &supportapi.APIError{StatusCode: http.StatusNotFound, Message: "Ticket not found"}})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/tickets/TKT-404", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Page not found") {
		t.Fatal("error page body missing")
	}
}
