package supportapi

import (
	"time"

	"github.com/helpdeck-io/helpdeck/internal/support"
)

// TicketList is the normalized shape for ticket listing responses. The
// backend historically returned a bare JSON array; newer deployments return
// this object directly. Client.ListTickets accepts both.
type TicketList struct {
	Tickets []support.Ticket `json:"tickets"`
	Total   int              `json:"total"`
}

// ListTicketsQuery carries the server-side listing filters. Zero values are
// omitted from the request.
type ListTicketsQuery struct {
	Status   string
	Category string
	Priority string
	Limit    int
	Offset   int
}

// QueryRequest submits a new customer query for processing. The backend
// creates (or reuses) a ticket and runs its AI pipeline over the query.
type QueryRequest struct {
	CustomerEmail string         `json:"customer_email"`
	Query         string         `json:"query"`
	Subject       string         `json:"subject,omitempty"`
	Source        string         `json:"source,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Classification is the AI classification attached to a processed query.
type Classification struct {
	Category   string  `json:"category,omitempty"`
	Priority   string  `json:"priority,omitempty"`
	Urgency    string  `json:"urgency,omitempty"`
	Sentiment  string  `json:"sentiment,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// SuggestedAction is one AI-proposed follow-up on a processed query.
type SuggestedAction struct {
	ActionType       string  `json:"action_type"`
	Description      string  `json:"description,omitempty"`
	RequiresApproval bool    `json:"requires_approval,omitempty"`
	ConfidenceScore  float64 `json:"confidence_score,omitempty"`
}

// QueryReceipt is the backend's answer to a submitted query.
type QueryReceipt struct {
	RequestID             string            `json:"request_id"`
	TicketID              string            `json:"ticket_id"`
	PlanID                string            `json:"plan_id,omitempty"`
	Status                string            `json:"status"`
	AIResponse            string            `json:"ai_response"`
	Classification        *Classification   `json:"classification,omitempty"`
	RequiresHumanApproval bool              `json:"requires_human_approval"`
	ApprovalID            string            `json:"approval_id,omitempty"`
	SuggestedActions      []SuggestedAction `json:"suggested_actions,omitempty"`
}

// ApprovalDecision records a human decision on a pending approval.
type ApprovalDecision struct {
	ApprovalID string `json:"approval_id"`
	Approved   bool   `json:"approved"`
	Reason     string `json:"reason,omitempty"`
}

// ApprovalReceipt confirms a processed approval decision.
type ApprovalReceipt struct {
	ApprovalID  string    `json:"approval_id"`
	TicketID    string    `json:"ticket_id"`
	Approved    bool      `json:"approved"`
	ProcessedAt time.Time `json:"processed_at"`
}

// DashboardMetrics is the aggregate ticket analytics payload. Rate fields
// are percentage points (0..100).
type DashboardMetrics struct {
	TotalTickets           int     `json:"total_tickets"`
	TicketsToday           int     `json:"tickets_today"`
	OpenTickets            int     `json:"open_tickets"`
	PendingApprovals       int     `json:"pending_approvals"`
	AIResolvedTickets      int     `json:"ai_resolved_tickets"`
	AvgResponseTimeMinutes float64 `json:"avg_response_time_minutes"`
	CustomerSatisfaction   float64 `json:"customer_satisfaction"`
	AIAutomationRate       float64 `json:"ai_automation_rate"`
}

// ActionCount is one entry in the most-common-actions breakdown.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// AIPerformance is the AI-agent performance analytics payload.
type AIPerformance struct {
	AIConversations       int           `json:"ai_conversations"`
	SuccessfulAutomations int           `json:"successful_automations"`
	FailedAutomations     int           `json:"failed_automations"`
	AutomationSuccessRate float64       `json:"automation_success_rate"`
	AvgConfidenceScore    float64       `json:"avg_confidence_score"`
	MostCommonActions     []ActionCount `json:"most_common_actions,omitempty"`
}

// Health reports backend liveness.
type Health struct {
	Status string `json:"status"`
}
