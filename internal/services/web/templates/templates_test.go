package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := component.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestFormatLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "IN_PROGRESS", want: "In Progress"},
		{in: "WAITING_APPROVAL", want: "Waiting Approval"},
		{in: "AI_AGENT", want: "AI Agent"},
		{in: "open", want: "Open"},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		if got := FormatLabel(tc.in); got != tc.want {
			t.Errorf("FormatLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCountUsesSeparators(t *testing.T) {
	t.Parallel()

	if got := FormatCount(1247); got != "1,247" {
		t.Fatalf("FormatCount(1247) = %q, want 1,247", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	if got := FormatTimestamp(time.Time{}); got != "" {
		t.Fatalf("zero time = %q, want empty", got)
	}
	at := time.Date(2026, time.August, 25, 9, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(at); got != "Aug 25, 2026 09:30 UTC" {
		t.Fatalf("FormatTimestamp() = %q", got)
	}
}

func TestAppLayoutEscapesViewerAndMarksActiveNav(t *testing.T) {
	t.Parallel()

	html := render(t, AppLayout("Tickets", PageContext{
		CurrentPath: "/app/tickets",
		ViewerName:  `Ada <script>`,
	}, nil))

	if !strings.Contains(html, "Ada &lt;script&gt;") {
		t.Fatal("viewer name was not escaped")
	}
	if !strings.Contains(html, `nav-link nav-link-active" href="/app/tickets"`) {
		t.Fatal("tickets nav link was not marked active")
	}
	if !strings.Contains(html, "<title>Tickets | "+AppName+"</title>") {
		t.Fatalf("unexpected title in %q", html)
	}
}

func TestTicketListPageShowsEmptyState(t *testing.T) {
	t.Parallel()

	html := render(t, TicketListPage(TicketListPageState{}))
	if !strings.Contains(html, "No tickets match the current filters.") {
		t.Fatal("empty state missing")
	}
}

func TestTicketDetailPageRendersPendingApprovalForm(t *testing.T) {
	t.Parallel()

	html := render(t, TicketDetailPage(TicketDetailPageState{
		ID:      "TKT-9",
		Subject: "Refund request",
		Status:  "WAITING_APPROVAL",
		Approvals: []ApprovalCard{{
			ID:           "apr-1",
			Action:       "ISSUE_REFUND",
			Status:       "PENDING",
			Pending:      true,
			DecisionPath: "/app/tickets/TKT-9/approvals/apr-1",
		}},
	}))

	if !strings.Contains(html, `action="/app/tickets/TKT-9/approvals/apr-1"`) {
		t.Fatal("approval decision form target missing")
	}
	if !strings.Contains(html, `value="approve"`) || !strings.Contains(html, `value="reject"`) {
		t.Fatal("approve and reject buttons missing")
	}
}

func TestFilterFormKeepsSelections(t *testing.T) {
	t.Parallel()

	html := render(t, TicketListPage(TicketListPageState{
		Filter: FilterState{
			Search:         "login",
			Status:         "OPEN",
			Priority:       "HIGH",
			StatusOptions:  []string{"OPEN", "CLOSED"},
			PriorityOption: []string{"LOW", "HIGH"},
		},
		Rows:       []TicketRow{{ID: "TKT-1", DetailPath: "/app/tickets/TKT-1"}},
		ShownCount: 1,
		TotalKnown: 1,
	}))

	if !strings.Contains(html, `value="login"`) {
		t.Fatal("search text not preserved")
	}
	if !strings.Contains(html, `<option value="OPEN" selected>`) {
		t.Fatal("status selection not preserved")
	}
	if !strings.Contains(html, `<option value="HIGH" selected>`) {
		t.Fatal("priority selection not preserved")
	}
}
