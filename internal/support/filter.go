package support

import "strings"

// FilterAll is the sentinel filter value that disables a dimension. An empty
// value is treated the same way.
const FilterAll = "all"

// FilterQuery captures the dashboard's client-side ticket filter inputs.
type FilterQuery struct {
	// Search matches case-insensitively against ticket id, subject, and
	// customer email. Empty matches everything.
	Search string
	// Status restricts to an exact status label unless empty or FilterAll.
	Status string
	// Priority restricts to an exact priority label unless empty or FilterAll.
	Priority string
}

// IsZero reports whether the query restricts nothing.
func (q FilterQuery) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && isFilterDisabled(q.Status) && isFilterDisabled(q.Priority)
}

// Filter returns the subset of tickets matching the query, preserving input
// order. The three dimensions intersect: free-text substring search over
// id/subject/customer email, exact status match, and exact priority match,
// where FilterAll (or empty) disables a dimension.
func Filter(tickets []Ticket, query FilterQuery) []Ticket {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	matched := make([]Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if !matchesSearch(ticket, search) {
			continue
		}
		if !matchesLabel(string(ticket.Status), query.Status) {
			continue
		}
		if !matchesLabel(string(ticket.Priority), query.Priority) {
			continue
		}
		matched = append(matched, ticket)
	}
	return matched
}

func matchesSearch(ticket Ticket, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(ticket.ID), search) {
		return true
	}
	if strings.Contains(strings.ToLower(ticket.Subject), search) {
		return true
	}
	return strings.Contains(strings.ToLower(ticket.SearchEmail()), search)
}

func matchesLabel(value string, filter string) bool {
	if isFilterDisabled(filter) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(filter), value)
}

func isFilterDisabled(filter string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(filter, FilterAll)
}
