package mockapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/helpdeck-io/helpdeck/internal/services/mockapi/store"
	"github.com/helpdeck-io/helpdeck/internal/support"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

type handlers struct {
	store *store.Store
}

// writeJSON mirrors the original backend's response envelope: payloads are
// written as-is and errors use the {"detail": ...} shape.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (h handlers) handleListTickets(w http.ResponseWriter, r *http.Request) {
	query := store.ListQuery{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Priority: r.URL.Query().Get("priority"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		query.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		query.Offset = offset
	}
	tickets, err := h.store.ListTickets(r.Context(), query)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to list tickets")
		log.Printf("list tickets: %v", err)
		return
	}
	// The original backend answers with a bare array, not a wrapper object.
	writeJSON(w, http.StatusOK, tickets)
}

func (h handlers) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.store.GetTicket(r.Context(), r.PathValue("ticketID"))
	if errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Ticket not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to load ticket")
		log.Printf("get ticket: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h handlers) handleProcessQuery(w http.ResponseWriter, r *http.Request) {
	var request supportapi.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(request.CustomerEmail) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "customer_email is required")
		return
	}
	if strings.TrimSpace(request.Query) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "query is required")
		return
	}

	ctx := r.Context()
	customer, err := h.store.EnsureCustomer(ctx, request.CustomerEmail, "")
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to resolve customer")
		log.Printf("ensure customer: %v", err)
		return
	}

	plan := planQuery(request.Query)
	subject := strings.TrimSpace(request.Subject)
	if subject == "" {
		subject = deriveSubject(request.Query)
	}
	source := strings.TrimSpace(request.Source)
	if source == "" {
		source = "api"
	}

	ticket, err := h.store.CreateTicket(ctx, store.CreateTicketParams{
		Subject:    subject,
		Status:     support.StatusOpen,
		Priority:   plan.priority,
		Category:   plan.category,
		Source:     source,
		CustomerID: customer.ID,
	})
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to create ticket")
		log.Printf("create ticket: %v", err)
		return
	}

	_, err = h.store.AddConversation(ctx, store.ConversationParams{
		TicketID:   ticket.ID,
		CustomerID: customer.ID,
		Content:    request.Query,
		Role:       support.RoleCustomer,
		Metadata:   request.Metadata,
	})
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to record query")
		log.Printf("add customer conversation: %v", err)
		return
	}
	_, err = h.store.AddConversation(ctx, store.ConversationParams{
		TicketID: ticket.ID,
		Content:  plan.response,
		Role:     support.RoleAIAgent,
		Metadata: map[string]any{"confidence": plan.confidence, "action_type": plan.actionType},
	})
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to record ai response")
		log.Printf("add ai conversation: %v", err)
		return
	}

	receipt := supportapi.QueryReceipt{
		RequestID:  uuid.NewString(),
		TicketID:   ticket.ID,
		AIResponse: plan.response,
		Classification: &supportapi.Classification{
			Category:   plan.category,
			Priority:   string(plan.priority),
			Confidence: plan.confidence,
		},
		SuggestedActions: []supportapi.SuggestedAction{{
			ActionType:       plan.actionType,
			Description:      plan.suggestion,
			RequiresApproval: plan.requiresApproval,
			ConfidenceScore:  plan.confidence,
		}},
	}

	switch {
	case plan.requiresApproval:
		approval, err := h.store.CreateApproval(ctx, store.ApprovalParams{
			TicketID:     ticket.ID,
			ActionType:   plan.actionType,
			AISuggestion: plan.suggestion,
			Confidence:   plan.confidence,
		})
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "failed to create approval")
			log.Printf("create approval: %v", err)
			return
		}
		if err := h.store.UpdateTicketStatus(ctx, ticket.ID, support.StatusWaitingApproval, ""); err != nil {
			writeDetail(w, http.StatusInternalServerError, "failed to update ticket")
			log.Printf("update ticket status: %v", err)
			return
		}
		receipt.Status = string(support.StatusWaitingApproval)
		receipt.RequiresHumanApproval = true
		receipt.ApprovalID = approval.ID
	case plan.autoResolve:
		if err := h.store.UpdateTicketStatus(ctx, ticket.ID, support.StatusResolved, "ai_agent"); err != nil {
			writeDetail(w, http.StatusInternalServerError, "failed to update ticket")
			log.Printf("update ticket status: %v", err)
			return
		}
		receipt.Status = string(support.StatusResolved)
	default:
		if err := h.store.UpdateTicketStatus(ctx, ticket.ID, support.StatusInProgress, ""); err != nil {
			writeDetail(w, http.StatusInternalServerError, "failed to update ticket")
			log.Printf("update ticket status: %v", err)
			return
		}
		receipt.Status = string(support.StatusInProgress)
	}

	writeJSON(w, http.StatusOK, receipt)
}

func (h handlers) handleApprove(w http.ResponseWriter, r *http.Request) {
	ticketID := r.PathValue("ticketID")
	var decision supportapi.ApprovalDecision
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(decision.ApprovalID) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "approval_id is required")
		return
	}

	ctx := r.Context()
	approval, err := h.store.DecideApproval(ctx, ticketID, decision.ApprovalID, decision.Approved, decision.Reason, "agent")
	if errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Approval not found")
		return
	}
	if errors.Is(err, store.ErrAlreadyDecided) {
		writeDetail(w, http.StatusConflict, "Approval already decided")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to process approval")
		log.Printf("decide approval: %v", err)
		return
	}

	// An approved action executes the canned plan and resolves the ticket;
	// a rejection hands the ticket back to a human.
	nextStatus := support.StatusInProgress
	resolvedBy := ""
	if decision.Approved {
		nextStatus = support.StatusResolved
		resolvedBy = "ai_agent"
	}
	if err := h.store.UpdateTicketStatus(ctx, ticketID, nextStatus, resolvedBy); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusInternalServerError, "failed to update ticket")
		log.Printf("update ticket status: %v", err)
		return
	}

	writeJSON(w, http.StatusOK, supportapi.ApprovalReceipt{
		ApprovalID:  approval.ID,
		TicketID:    approval.TicketID,
		Approved:    decision.Approved,
		ProcessedAt: valueOrNow(approval.DecidedAt),
	})
}

func (h handlers) handleDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.DashboardMetrics(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to compute metrics")
		log.Printf("dashboard metrics: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h handlers) handleAIPerformance(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.AIPerformance(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to compute metrics")
		log.Printf("ai performance: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, supportapi.Health{Status: "healthy"})
}
