package mockapi

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/helpdeck-io/helpdeck/internal/support"
)

// queryPlan is the canned stand-in for the backend's AI pipeline output.
type queryPlan struct {
	category         string
	priority         support.Priority
	actionType       string
	suggestion       string
	response         string
	confidence       float64
	requiresApproval bool
	autoResolve      bool
}

// planQuery maps a customer query onto a canned classification. Keyword
// matching is deliberately simple: the mock exists to exercise the dashboard
// flows, not to classify.
func planQuery(query string) queryPlan {
	lowered := strings.ToLower(query)
	contains := func(words ...string) bool {
		for _, word := range words {
			if strings.Contains(lowered, word) {
				return true
			}
		}
		return false
	}

	plan := queryPlan{
		category:   "general",
		priority:   support.PriorityMedium,
		actionType: "general_inquiry",
		suggestion: "Route the question to a support agent.",
		response:   "Thanks for reaching out. A support agent will follow up with you shortly.",
		confidence: 0.64,
	}

	switch {
	case contains("refund", "charged", "charge", "billing", "invoice"):
		plan.category = "billing"
		plan.priority = support.PriorityHigh
		plan.actionType = "refund_request"
		plan.suggestion = "Issue a refund for the disputed charge."
		plan.response = "I reviewed your billing history and prepared a refund. A support agent will approve it shortly."
		plan.confidence = 0.92
		plan.requiresApproval = true
	case contains("password", "sign in", "log in", "login", "locked out"):
		plan.category = "account"
		plan.actionType = "password_reset"
		plan.suggestion = "Send a password reset link."
		plan.response = "I sent a password reset link to your email address. It expires in 30 minutes."
		plan.confidence = 0.88
		plan.autoResolve = true
	case contains("cancel", "delete my account", "close my account"):
		plan.category = "account"
		plan.priority = support.PriorityHigh
		plan.actionType = "account_deletion"
		plan.suggestion = "Schedule account closure after confirmation."
		plan.response = "I can close your account once a support agent confirms the request."
		plan.confidence = 0.75
		plan.requiresApproval = true
	case contains("error", "crash", "broken", "fail", "timeout", "bug"):
		plan.category = "technical"
		plan.priority = support.PriorityHigh
		plan.actionType = "escalate_technical"
		plan.suggestion = "Escalate to the technical team."
		plan.response = "I captured the failure details and escalated this to our technical team."
		plan.confidence = 0.81
	}

	if contains("urgent", "asap", "immediately", "right now") {
		plan.priority = support.PriorityUrgent
	}
	return plan
}

// maxSubjectLength bounds derived subjects to a listing-friendly size.
const maxSubjectLength = 60

// deriveSubject builds a subject line from the first words of a query.
func deriveSubject(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	if collapsed == "" {
		return "Customer query"
	}
	if len(collapsed) <= maxSubjectLength {
		return collapsed
	}
	// Back up to a rune boundary so multibyte queries never split mid-rune.
	limit := maxSubjectLength
	for limit > 0 && !utf8.RuneStart(collapsed[limit]) {
		limit--
	}
	cut := collapsed[:limit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func valueOrNow(value *time.Time) time.Time {
	if value == nil {
		return time.Now().UTC()
	}
	return *value
}
