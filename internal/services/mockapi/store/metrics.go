package store

import (
	"context"
	"fmt"
	"time"

	"github.com/helpdeck-io/helpdeck/internal/support"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// aiActor is the resolved_by marker for tickets closed by the AI pipeline.
const aiActor = "ai_agent"

// DashboardMetrics computes the aggregate ticket analytics from the store.
func (s *Store) DashboardMetrics(ctx context.Context) (supportapi.DashboardMetrics, error) {
	if err := s.ready(ctx); err != nil {
		return supportapi.DashboardMetrics{}, err
	}
	var metrics supportapi.DashboardMetrics

	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&metrics.TotalTickets); err != nil {
		return supportapi.DashboardMetrics{}, fmt.Errorf("count tickets: %w", err)
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM tickets WHERE created_at >= ?`,
		startOfDay.UnixMilli(),
	).Scan(&metrics.TicketsToday)
	if err != nil {
		return supportapi.DashboardMetrics{}, fmt.Errorf("count today's tickets: %w", err)
	}

	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM tickets WHERE status IN (?, ?, ?)`,
		string(support.StatusOpen),
		string(support.StatusInProgress),
		string(support.StatusWaitingApproval),
	).Scan(&metrics.OpenTickets)
	if err != nil {
		return supportapi.DashboardMetrics{}, fmt.Errorf("count open tickets: %w", err)
	}

	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM approvals WHERE status = ?`,
		string(support.ApprovalPending),
	).Scan(&metrics.PendingApprovals)
	if err != nil {
		return supportapi.DashboardMetrics{}, fmt.Errorf("count pending approvals: %w", err)
	}

	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM tickets WHERE resolved_by = ?`,
		aiActor,
	).Scan(&metrics.AIResolvedTickets)
	if err != nil {
		return supportapi.DashboardMetrics{}, fmt.Errorf("count ai-resolved tickets: %w", err)
	}

	// Average minutes from ticket creation to the first non-customer reply.
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COALESCE(AVG(first_reply - created), 0) FROM (
		   SELECT t.created_at AS created, MIN(c.created_at) AS first_reply
		   FROM tickets t
		   JOIN conversations c ON c.ticket_id = t.id AND c.role != ?
		   GROUP BY t.id
		 )`,
		string(support.RoleCustomer),
	).Scan(&metrics.AvgResponseTimeMinutes)
	if err != nil {
		return supportapi.DashboardMetrics{}, fmt.Errorf("average response time: %w", err)
	}
	metrics.AvgResponseTimeMinutes = metrics.AvgResponseTimeMinutes / float64(time.Minute/time.Millisecond)

	// Rates travel as percentage points, not ratios.
	if metrics.TotalTickets > 0 {
		metrics.AIAutomationRate = 100 * float64(metrics.AIResolvedTickets) / float64(metrics.TotalTickets)
	}
	// The real backend derives satisfaction from surveys; the mock has none.
	metrics.CustomerSatisfaction = 4.6
	return metrics, nil
}

// AIPerformance computes the AI-agent analytics from the store.
func (s *Store) AIPerformance(ctx context.Context) (supportapi.AIPerformance, error) {
	if err := s.ready(ctx); err != nil {
		return supportapi.AIPerformance{}, err
	}
	var metrics supportapi.AIPerformance

	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM conversations WHERE role = ?`,
		string(support.RoleAIAgent),
	).Scan(&metrics.AIConversations)
	if err != nil {
		return supportapi.AIPerformance{}, fmt.Errorf("count ai conversations: %w", err)
	}

	var approved, rejected int
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT
		   COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM approvals`,
		string(support.ApprovalApproved),
		string(support.ApprovalRejected),
	).Scan(&approved, &rejected)
	if err != nil {
		return supportapi.AIPerformance{}, fmt.Errorf("count approval outcomes: %w", err)
	}

	var aiResolved int
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM tickets WHERE resolved_by = ?`,
		aiActor,
	).Scan(&aiResolved)
	if err != nil {
		return supportapi.AIPerformance{}, fmt.Errorf("count ai-resolved tickets: %w", err)
	}

	metrics.SuccessfulAutomations = approved + aiResolved
	metrics.FailedAutomations = rejected
	// Percentage points, same scale as the dashboard rate.
	if total := metrics.SuccessfulAutomations + metrics.FailedAutomations; total > 0 {
		metrics.AutomationSuccessRate = 100 * float64(metrics.SuccessfulAutomations) / float64(total)
	}

	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COALESCE(AVG(confidence), 0) FROM approvals WHERE confidence > 0`,
	).Scan(&metrics.AvgConfidenceScore)
	if err != nil {
		return supportapi.AIPerformance{}, fmt.Errorf("average confidence: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT action_type, COUNT(*) AS total FROM approvals
		 GROUP BY action_type ORDER BY total DESC, action_type ASC LIMIT 5`,
	)
	if err != nil {
		return supportapi.AIPerformance{}, fmt.Errorf("common actions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var entry supportapi.ActionCount
		if err := rows.Scan(&entry.Action, &entry.Count); err != nil {
			return supportapi.AIPerformance{}, fmt.Errorf("scan action count: %w", err)
		}
		metrics.MostCommonActions = append(metrics.MostCommonActions, entry)
	}
	if err := rows.Err(); err != nil {
		return supportapi.AIPerformance{}, fmt.Errorf("iterate action counts: %w", err)
	}
	return metrics, nil
}
