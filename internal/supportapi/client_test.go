package supportapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewRequiresAbsoluteBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "empty", baseURL: ""},
		{name: "whitespace", baseURL: "   "},
		{name: "relative", baseURL: "/api"},
		{name: "missing scheme", baseURL: "localhost:8000"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tc.baseURL); err == nil {
				t.Fatalf("New(%q) expected error", tc.baseURL)
			}
		})
	}
}

func TestListTicketsNormalizesBareArray(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tickets" {
			t.Errorf("path = %q, want /api/v1/tickets", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"TKT-1","subject":"Login issue"},{"id":"TKT-2","subject":"Billing"}]`))
	}))

	list, err := client.ListTickets(context.Background(), ListTicketsQuery{})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("Total = %d, want 2", list.Total)
	}
	if len(list.Tickets) != 2 || list.Tickets[0].ID != "TKT-1" {
		t.Fatalf("Tickets = %+v, want two tickets starting with TKT-1", list.Tickets)
	}
}

func TestListTicketsPassesObjectFormThrough(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tickets":[{"id":"TKT-1"}],"total":41}`))
	}))

	list, err := client.ListTickets(context.Background(), ListTicketsQuery{})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if list.Total != 41 {
		t.Fatalf("Total = %d, want 41 (object form must pass through unchanged)", list.Total)
	}
	if len(list.Tickets) != 1 {
		t.Fatalf("len(Tickets) = %d, want 1", len(list.Tickets))
	}
}

func TestListTicketsSendsFiltersAndPagination(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := client.ListTickets(context.Background(), ListTicketsQuery{
		Status:   "OPEN",
		Priority: "HIGH",
		Limit:    25,
		Offset:   50,
	})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	want := "limit=25&offset=50&priority=HIGH&status=OPEN"
	if gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}
}

func TestRequestsCarryBearerTokenAndNoStore(t *testing.T) {
	t.Parallel()

	var gotAuth, gotCache string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCache = r.Header.Get("Cache-Control")
		_, _ = w.Write([]byte(`[]`))
	}), WithTokenSource(TokenSourceFunc(func(context.Context) (string, bool) {
		return "session-token", true
	})))

	if _, err := client.ListTickets(context.Background(), ListTicketsQuery{}); err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if gotAuth != "Bearer session-token" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "Bearer session-token")
	}
	if gotCache != "no-store" {
		t.Fatalf("Cache-Control = %q, want no-store", gotCache)
	}
}

func TestRequestsOmitAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}), WithTokenSource(TokenSourceFunc(func(context.Context) (string, bool) {
		return "", false
	})))

	if _, err := client.ListTickets(context.Background(), ListTicketsQuery{}); err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestNonSuccessStatusBecomesAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Ticket not found"}`))
	}))

	_, err := client.GetTicket(context.Background(), "TKT-404")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(err) = false, err = %v", err)
	}
	if got := PublicMessage(err); got != "Ticket not found" {
		t.Fatalf("PublicMessage(err) = %q, want %q", got, "Ticket not found")
	}
}

func TestTransportFailureBecomesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.ListTickets(context.Background(), ListTicketsQuery{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0 for transport failure", apiErr.StatusCode)
	}
	if apiErr.Cause == nil {
		t.Fatal("Cause = nil, want underlying transport error")
	}
}

func TestSubmitQueryValidatesInput(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("server should not be reached for invalid input")
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.SubmitQuery(context.Background(), QueryRequest{Query: "help"}); err == nil {
		t.Fatal("expected error for missing customer email")
	}
	if _, err := client.SubmitQuery(context.Background(), QueryRequest{CustomerEmail: "a@x.com"}); err == nil {
		t.Fatal("expected error for missing query text")
	}
}

func TestSubmitQueryDecodesReceipt(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.CustomerEmail != "a@x.com" {
			t.Errorf("CustomerEmail = %q, want a@x.com", req.CustomerEmail)
		}
		_, _ = w.Write([]byte(`{
			"request_id":"req-1",
			"ticket_id":"TKT-9",
			"status":"completed",
			"ai_response":"We reset your password.",
			"requires_human_approval":true,
			"approval_id":"apr-1"
		}`))
	}))

	receipt, err := client.SubmitQuery(context.Background(), QueryRequest{
		CustomerEmail: "a@x.com",
		Query:         "I cannot log in",
		Subject:       "Login issue",
	})
	if err != nil {
		t.Fatalf("SubmitQuery() error = %v", err)
	}
	if receipt.TicketID != "TKT-9" {
		t.Fatalf("TicketID = %q, want TKT-9", receipt.TicketID)
	}
	if !receipt.RequiresHumanApproval || receipt.ApprovalID != "apr-1" {
		t.Fatalf("receipt = %+v, want approval apr-1 required", receipt)
	}
}

func TestApproveTargetsTicketApprovalEndpoint(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"approval_id":"apr-1","ticket_id":"TKT-9","approved":true,"processed_at":"2026-08-25T10:00:00Z"}`))
	}))

	receipt, err := client.Approve(context.Background(), "TKT-9", ApprovalDecision{ApprovalID: "apr-1", Approved: true})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if gotPath != "/api/v1/tickets/TKT-9/approve" {
		t.Fatalf("path = %q, want /api/v1/tickets/TKT-9/approve", gotPath)
	}
	if !receipt.Approved || receipt.TicketID != "TKT-9" {
		t.Fatalf("receipt = %+v, want approved TKT-9", receipt)
	}
}

func TestDashboardMetricsDecodesPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"total_tickets":1247,
			"tickets_today":23,
			"open_tickets":45,
			"pending_approvals":7,
			"ai_resolved_tickets":934,
			"avg_response_time_minutes":2.3,
			"customer_satisfaction":4.6,
			"ai_automation_rate":75.2
		}`))
	}))

	metrics, err := client.DashboardMetrics(context.Background())
	if err != nil {
		t.Fatalf("DashboardMetrics() error = %v", err)
	}
	if metrics.TotalTickets != 1247 || metrics.AIAutomationRate != 75.2 {
		t.Fatalf("metrics = %+v", metrics)
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`not json`))
	}))

	_, err := client.AIPerformance(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := PublicMessage(err); got != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("PublicMessage(err) = %q, want %q", got, http.StatusText(http.StatusBadGateway))
	}
}
