package tickets

import (
	"context"
	"sync"

	"github.com/helpdeck-io/helpdeck/internal/support"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// fakeGateway implements TicketGateway for tests with configurable return
// values and call tracking. submitStarted/submitRelease let tests hold a
// submission open to exercise the duplicate-submit guard.
type fakeGateway struct {
	mu sync.Mutex

	list          supportapi.TicketList
	listErr       error
	lastListQuery supportapi.ListTicketsQuery

	ticket    support.Ticket
	ticketErr error

	receipt       supportapi.QueryReceipt
	submitErr     error
	submitCalls   int
	submitStarted chan struct{}
	submitRelease chan struct{}

	approvalReceipt supportapi.ApprovalReceipt
	approveErr      error
	lastDecision    supportapi.ApprovalDecision
}

func (f *fakeGateway) ListTickets(_ context.Context, query supportapi.ListTicketsQuery) (supportapi.TicketList, error) {
	f.mu.Lock()
	f.lastListQuery = query
	f.mu.Unlock()
	if f.listErr != nil {
		return supportapi.TicketList{}, f.listErr
	}
	return f.list, nil
}

func (f *fakeGateway) GetTicket(context.Context, string) (support.Ticket, error) {
	if f.ticketErr != nil {
		return support.Ticket{}, f.ticketErr
	}
	return f.ticket, nil
}

func (f *fakeGateway) SubmitQuery(context.Context, supportapi.QueryRequest) (supportapi.QueryReceipt, error) {
	f.mu.Lock()
	f.submitCalls++
	f.mu.Unlock()
	if f.submitStarted != nil {
		f.submitStarted <- struct{}{}
	}
	if f.submitRelease != nil {
		<-f.submitRelease
	}
	if f.submitErr != nil {
		return supportapi.QueryReceipt{}, f.submitErr
	}
	return f.receipt, nil
}

func (f *fakeGateway) Approve(_ context.Context, _ string, decision supportapi.ApprovalDecision) (supportapi.ApprovalReceipt, error) {
	f.mu.Lock()
	f.lastDecision = decision
	f.mu.Unlock()
	if f.approveErr != nil {
		return supportapi.ApprovalReceipt{}, f.approveErr
	}
	return f.approvalReceipt, nil
}
