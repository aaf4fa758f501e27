// Package support defines the ticket, conversation, and approval records
// exchanged with the support API. These are display-oriented projections of
// backend state: the dashboard never enforces transitions on them, and
// unknown status or priority labels are carried through untouched so the
// rendering layer can fall back to a default style.
package support

import "time"

// TicketStatus labels a ticket's backend lifecycle stage.
type TicketStatus string

const (
	StatusOpen            TicketStatus = "OPEN"
	StatusInProgress      TicketStatus = "IN_PROGRESS"
	StatusWaitingApproval TicketStatus = "WAITING_APPROVAL"
	StatusResolved        TicketStatus = "RESOLVED"
	StatusClosed          TicketStatus = "CLOSED"
)

// KnownStatuses returns the status labels the backend emits, in display order.
func KnownStatuses() []TicketStatus {
	return []TicketStatus{StatusOpen, StatusInProgress, StatusWaitingApproval, StatusResolved, StatusClosed}
}

// Priority labels a ticket's backend-assigned urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// KnownPriorities returns the priority labels the backend emits, in display order.
func KnownPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAgent    Role = "AGENT"
	RoleAIAgent  Role = "AI_AGENT"
	RoleSystem   Role = "SYSTEM"
)

// ApprovalStatus records the human decision state on an AI-suggested action.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Customer is the lightweight customer record embedded in ticket responses.
type Customer struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Company   string     `json:"company,omitempty"`
	Segment   string     `json:"segment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Conversation is one message in a ticket's thread.
type Conversation struct {
	ID         string         `json:"id"`
	TicketID   string         `json:"ticket_id"`
	CustomerID string         `json:"customer_id"`
	Content    string         `json:"content"`
	Role       Role           `json:"role"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Approval is a pending or decided record of a human decision on an
// AI-suggested action.
type Approval struct {
	ID           string         `json:"id"`
	TicketID     string         `json:"ticket_id"`
	ActionType   string         `json:"action_type"`
	AISuggestion string         `json:"ai_suggestion"`
	Status       ApprovalStatus `json:"status"`
	ApprovedBy   string         `json:"approved_by,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	DecidedAt    *time.Time     `json:"decided_at,omitempty"`
}

// Ticket is a customer support request snapshot. List responses carry only
// the scalar fields plus an optional customer preview; detail responses also
// include the conversation thread and approvals.
type Ticket struct {
	ID            string         `json:"id"`
	Subject       string         `json:"subject"`
	Status        TicketStatus   `json:"status"`
	Priority      Priority       `json:"priority"`
	Category      string         `json:"category,omitempty"`
	Source        string         `json:"source,omitempty"`
	CustomerID    string         `json:"customer_id,omitempty"`
	CustomerEmail string         `json:"customer_email,omitempty"`
	AssignedTo    string         `json:"assigned_to,omitempty"`
	ResolvedBy    string         `json:"resolved_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
	ResolvedAt    *time.Time     `json:"resolved_at,omitempty"`
	Customer      *Customer      `json:"customer,omitempty"`
	Conversations []Conversation `json:"conversations,omitempty"`
	Approvals     []Approval     `json:"approvals,omitempty"`
}

// SearchEmail returns the customer email used for free-text matching,
// preferring the embedded customer record over the flattened field.
func (t Ticket) SearchEmail() string {
	if t.Customer != nil && t.Customer.Email != "" {
		return t.Customer.Email
	}
	return t.CustomerEmail
}
