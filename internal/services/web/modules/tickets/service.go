package tickets

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/helpdeck-io/helpdeck/internal/services/web/platform/errors"
	"github.com/helpdeck-io/helpdeck/internal/support"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// listFetchLimit bounds how many tickets one page load pulls from the
// backend before local filtering.
const listFetchLimit = 200

// TicketGateway exposes the support API operations the module consumes.
type TicketGateway interface {
	ListTickets(ctx context.Context, query supportapi.ListTicketsQuery) (supportapi.TicketList, error)
	GetTicket(ctx context.Context, ticketID string) (support.Ticket, error)
	SubmitQuery(ctx context.Context, request supportapi.QueryRequest) (supportapi.QueryReceipt, error)
	Approve(ctx context.Context, ticketID string, decision supportapi.ApprovalDecision) (supportapi.ApprovalReceipt, error)
}

type unavailableGateway struct{}

func (unavailableGateway) ListTickets(context.Context, supportapi.ListTicketsQuery) (supportapi.TicketList, error) {
	return supportapi.TicketList{}, apperrors.E(apperrors.KindUnavailable, "ticket service is not configured")
}

func (unavailableGateway) GetTicket(context.Context, string) (support.Ticket, error) {
	return support.Ticket{}, apperrors.E(apperrors.KindUnavailable, "ticket service is not configured")
}

func (unavailableGateway) SubmitQuery(context.Context, supportapi.QueryRequest) (supportapi.QueryReceipt, error) {
	return supportapi.QueryReceipt{}, apperrors.E(apperrors.KindUnavailable, "ticket service is not configured")
}

func (unavailableGateway) Approve(context.Context, string, supportapi.ApprovalDecision) (supportapi.ApprovalReceipt, error) {
	return supportapi.ApprovalReceipt{}, apperrors.E(apperrors.KindUnavailable, "ticket service is not configured")
}

// TicketListing is the filtered list view model.
type TicketListing struct {
	Tickets    []support.Ticket
	TotalKnown int
}

type service struct {
	gateway TicketGateway

	// inFlight tracks users with a query submission awaiting a backend
	// answer. Submissions can take seconds while the AI pipeline runs, so
	// a second click must not spawn a duplicate ticket.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newService(gateway TicketGateway) *service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return &service{
		gateway:  gateway,
		inFlight: make(map[string]struct{}),
	}
}

// listTickets fetches a page from the backend and applies display filtering
// locally. Status and priority are also passed upstream when concrete so the
// backend can narrow the page, but the local pass stays authoritative.
func (s *service) listTickets(ctx context.Context, filter support.FilterQuery) (TicketListing, error) {
	query := supportapi.ListTicketsQuery{Limit: listFetchLimit}
	if !isSentinel(filter.Status) {
		query.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	}
	if !isSentinel(filter.Priority) {
		query.Priority = strings.ToUpper(strings.TrimSpace(filter.Priority))
	}
	list, err := s.gateway.ListTickets(ctx, query)
	if err != nil {
		return TicketListing{}, apperrors.FromSupportAPI(err)
	}
	return TicketListing{
		Tickets:    support.Filter(list.Tickets, filter),
		TotalKnown: list.Total,
	}, nil
}

func isSentinel(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, support.FilterAll)
}

func (s *service) getTicket(ctx context.Context, ticketID string) (support.Ticket, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return support.Ticket{}, apperrors.E(apperrors.KindInvalidInput, "a ticket id is required")
	}
	ticket, err := s.gateway.GetTicket(ctx, ticketID)
	if err != nil {
		return support.Ticket{}, apperrors.FromSupportAPI(err)
	}
	return ticket, nil
}

// errSubmitInFlight reports a duplicate submission while one is pending.
var errSubmitInFlight = apperrors.E(apperrors.KindInvalidInput, "A submission is already in progress. Wait for it to finish before submitting again.")

// submitQuery forwards a new customer query, allowing at most one pending
// submission per user.
func (s *service) submitQuery(ctx context.Context, userID string, request supportapi.QueryRequest) (supportapi.QueryReceipt, error) {
	request.CustomerEmail = strings.TrimSpace(request.CustomerEmail)
	request.Query = strings.TrimSpace(request.Query)
	request.Subject = strings.TrimSpace(request.Subject)
	if request.CustomerEmail == "" || !strings.Contains(request.CustomerEmail, "@") {
		return supportapi.QueryReceipt{}, apperrors.E(apperrors.KindInvalidInput, "A valid customer email is required.")
	}
	if request.Query == "" {
		return supportapi.QueryReceipt{}, apperrors.E(apperrors.KindInvalidInput, "The customer query cannot be empty.")
	}

	guardKey := strings.TrimSpace(userID)
	if guardKey == "" {
		guardKey = "anonymous"
	}
	s.mu.Lock()
	if _, pending := s.inFlight[guardKey]; pending {
		s.mu.Unlock()
		return supportapi.QueryReceipt{}, errSubmitInFlight
	}
	s.inFlight[guardKey] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, guardKey)
		s.mu.Unlock()
	}()

	receipt, err := s.gateway.SubmitQuery(ctx, request)
	if err != nil {
		return supportapi.QueryReceipt{}, apperrors.FromSupportAPI(err)
	}
	return receipt, nil
}

func (s *service) decideApproval(ctx context.Context, ticketID string, approvalID string, approved bool, comments string) (supportapi.ApprovalReceipt, error) {
	ticketID = strings.TrimSpace(ticketID)
	approvalID = strings.TrimSpace(approvalID)
	if ticketID == "" || approvalID == "" {
		return supportapi.ApprovalReceipt{}, apperrors.E(apperrors.KindInvalidInput, "a ticket id and approval id are required")
	}
	receipt, err := s.gateway.Approve(ctx, ticketID, supportapi.ApprovalDecision{
		ApprovalID: approvalID,
		Approved:   approved,
		Reason:     strings.TrimSpace(comments),
	})
	if err != nil {
		return supportapi.ApprovalReceipt{}, apperrors.FromSupportAPI(err)
	}
	return receipt, nil
}
