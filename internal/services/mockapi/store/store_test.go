package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/helpdeck-io/helpdeck/internal/support"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "support.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return st
}

func seedTestStore(t *testing.T, st *Store) SeedFixture {
	t.Helper()
	fixture, err := LoadSeedFixture("")
	if err != nil {
		t.Fatalf("LoadSeedFixture() error = %v", err)
	}
	if err := st.Seed(context.Background(), fixture); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return fixture
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(" "); err == nil {
		t.Fatal("Open() error = nil, want error for blank path")
	}
}

func TestSeedPopulatesEmptyStore(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	empty, err := st.Empty(ctx)
	if err != nil {
		t.Fatalf("Empty() error = %v", err)
	}
	if !empty {
		t.Fatal("new store should be empty")
	}

	fixture := seedTestStore(t, st)
	tickets, err := st.ListTickets(ctx, ListQuery{})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) != len(fixture.Tickets) {
		t.Fatalf("ListTickets() returned %d tickets, want %d", len(tickets), len(fixture.Tickets))
	}
	for idx := 1; idx < len(tickets); idx++ {
		if tickets[idx].CreatedAt.After(tickets[idx-1].CreatedAt) {
			t.Fatalf("tickets not newest first at index %d", idx)
		}
	}
	for _, ticket := range tickets {
		if ticket.Customer == nil || ticket.Customer.Email == "" {
			t.Fatalf("ticket %s missing customer preview", ticket.ID)
		}
	}
}

func TestListTicketsFilters(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	seedTestStore(t, st)
	ctx := context.Background()

	open, err := st.ListTickets(ctx, ListQuery{Status: "open"})
	if err != nil {
		t.Fatalf("ListTickets(status) error = %v", err)
	}
	for _, ticket := range open {
		if ticket.Status != support.StatusOpen {
			t.Fatalf("ticket %s status = %s, want OPEN", ticket.ID, ticket.Status)
		}
	}
	if len(open) == 0 {
		t.Fatal("seed fixture should include an open ticket")
	}

	urgent, err := st.ListTickets(ctx, ListQuery{Priority: "URGENT"})
	if err != nil {
		t.Fatalf("ListTickets(priority) error = %v", err)
	}
	for _, ticket := range urgent {
		if ticket.Priority != support.PriorityUrgent {
			t.Fatalf("ticket %s priority = %s, want URGENT", ticket.ID, ticket.Priority)
		}
	}

	limited, err := st.ListTickets(ctx, ListQuery{Limit: 2})
	if err != nil {
		t.Fatalf("ListTickets(limit) error = %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("ListTickets(limit=2) returned %d tickets", len(limited))
	}
}

func TestGetTicketDetail(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	seedTestStore(t, st)
	ctx := context.Background()

	tickets, err := st.ListTickets(ctx, ListQuery{Status: string(support.StatusWaitingApproval)})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) == 0 {
		t.Fatal("seed fixture should include a waiting-approval ticket")
	}

	ticket, err := st.GetTicket(ctx, tickets[0].ID)
	if err != nil {
		t.Fatalf("GetTicket() error = %v", err)
	}
	if len(ticket.Conversations) == 0 {
		t.Fatal("detail should include conversations")
	}
	for idx := 1; idx < len(ticket.Conversations); idx++ {
		if ticket.Conversations[idx].CreatedAt.Before(ticket.Conversations[idx-1].CreatedAt) {
			t.Fatal("conversations not oldest first")
		}
	}
	if len(ticket.Approvals) == 0 {
		t.Fatal("detail should include approvals")
	}
	if ticket.Approvals[0].Status != support.ApprovalPending {
		t.Fatalf("approval status = %s, want PENDING", ticket.Approvals[0].Status)
	}

	if _, err := st.GetTicket(ctx, "TKT-9999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTicket(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDecideApproval(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	seedTestStore(t, st)
	ctx := context.Background()

	tickets, err := st.ListTickets(ctx, ListQuery{Status: string(support.StatusWaitingApproval)})
	if err != nil || len(tickets) == 0 {
		t.Fatalf("seed fixture missing waiting-approval ticket: %v", err)
	}
	ticket, err := st.GetTicket(ctx, tickets[0].ID)
	if err != nil {
		t.Fatalf("GetTicket() error = %v", err)
	}
	pending := ticket.Approvals[0]

	decided, err := st.DecideApproval(ctx, ticket.ID, pending.ID, true, "looks right", "agent")
	if err != nil {
		t.Fatalf("DecideApproval() error = %v", err)
	}
	if decided.Status != support.ApprovalApproved {
		t.Fatalf("status = %s, want APPROVED", decided.Status)
	}
	if decided.DecidedAt == nil {
		t.Fatal("DecidedAt not set")
	}
	if decided.Reason != "looks right" {
		t.Fatalf("reason = %q", decided.Reason)
	}

	if _, err := st.DecideApproval(ctx, ticket.ID, pending.ID, false, "", "agent"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second decision error = %v, want ErrAlreadyDecided", err)
	}
	if _, err := st.DecideApproval(ctx, "TKT-9999", pending.ID, true, "", "agent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("mismatched ticket error = %v, want ErrNotFound", err)
	}
}

func TestEnsureCustomerReusesByEmail(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.EnsureCustomer(ctx, "Casey@Example.com", "Casey")
	if err != nil {
		t.Fatalf("EnsureCustomer() error = %v", err)
	}
	second, err := st.EnsureCustomer(ctx, "casey@example.com", "")
	if err != nil {
		t.Fatalf("EnsureCustomer() second error = %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("customer ids differ: %s vs %s", first.ID, second.ID)
	}
	if first.Email != "casey@example.com" {
		t.Fatalf("email = %q, want lowercased", first.Email)
	}
}

func TestDashboardMetrics(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	fixture := seedTestStore(t, st)
	ctx := context.Background()

	metrics, err := st.DashboardMetrics(ctx)
	if err != nil {
		t.Fatalf("DashboardMetrics() error = %v", err)
	}
	if metrics.TotalTickets != len(fixture.Tickets) {
		t.Fatalf("TotalTickets = %d, want %d", metrics.TotalTickets, len(fixture.Tickets))
	}
	if metrics.PendingApprovals != 1 {
		t.Fatalf("PendingApprovals = %d, want 1", metrics.PendingApprovals)
	}
	if metrics.AIResolvedTickets != 1 {
		t.Fatalf("AIResolvedTickets = %d, want 1", metrics.AIResolvedTickets)
	}
	if metrics.OpenTickets == 0 {
		t.Fatal("OpenTickets = 0, want > 0")
	}
	if metrics.AvgResponseTimeMinutes <= 0 {
		t.Fatalf("AvgResponseTimeMinutes = %f, want > 0", metrics.AvgResponseTimeMinutes)
	}
	// 1 of 5 seeded tickets is ai-resolved; the rate is in percentage points.
	if metrics.AIAutomationRate != 20.0 {
		t.Fatalf("AIAutomationRate = %f, want 20.0", metrics.AIAutomationRate)
	}
}

func TestAIPerformance(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	seedTestStore(t, st)
	ctx := context.Background()

	metrics, err := st.AIPerformance(ctx)
	if err != nil {
		t.Fatalf("AIPerformance() error = %v", err)
	}
	if metrics.AIConversations == 0 {
		t.Fatal("AIConversations = 0, want > 0")
	}
	if metrics.FailedAutomations != 1 {
		t.Fatalf("FailedAutomations = %d, want 1 rejected approval", metrics.FailedAutomations)
	}
	// 1 ai-resolved ticket against 1 rejection, in percentage points.
	if metrics.AutomationSuccessRate != 50.0 {
		t.Fatalf("AutomationSuccessRate = %f, want 50.0", metrics.AutomationSuccessRate)
	}
	if metrics.AvgConfidenceScore <= 0 {
		t.Fatalf("AvgConfidenceScore = %f, want > 0", metrics.AvgConfidenceScore)
	}
	if len(metrics.MostCommonActions) == 0 {
		t.Fatal("MostCommonActions empty")
	}
}
