// Package store persists mock support tickets in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	sqlitemigrate "github.com/helpdeck-io/helpdeck/internal/platform/storage/sqlitemigrate"
	"github.com/helpdeck-io/helpdeck/internal/services/mockapi/store/migrations"
	"github.com/helpdeck-io/helpdeck/internal/support"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports a missing ticket or approval.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyDecided reports a decision on a non-pending approval.
var ErrAlreadyDecided = errors.New("approval already decided")

// Store persists support records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite support store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Empty reports whether the store holds no tickets.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count); err != nil {
		return false, fmt.Errorf("count tickets: %w", err)
	}
	return count == 0, nil
}

// EnsureCustomer returns the customer with the given email, creating a
// record when none exists. Email matching is case-insensitive.
func (s *Store) EnsureCustomer(ctx context.Context, email string, name string) (support.Customer, error) {
	if err := s.ready(ctx); err != nil {
		return support.Customer{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return support.Customer{}, fmt.Errorf("customer email is required")
	}
	customer, err := s.customerByEmail(ctx, email)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return support.Customer{}, err
	}
	now := time.Now().UTC()
	customer = support.Customer{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO customers (id, email, name, created_at) VALUES (?, ?, ?, ?)`,
		customer.ID,
		customer.Email,
		customer.Name,
		now.UnixMilli(),
	)
	if err != nil {
		return support.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return customer, nil
}

func (s *Store) customerByEmail(ctx context.Context, email string) (support.Customer, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, name, phone, company, segment, created_at, updated_at
		 FROM customers WHERE email = ?`,
		email,
	)
	return scanCustomer(row)
}

func (s *Store) customerByID(ctx context.Context, id string) (support.Customer, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, name, phone, company, segment, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	)
	return scanCustomer(row)
}

func scanCustomer(row *sql.Row) (support.Customer, error) {
	var customer support.Customer
	var createdAt int64
	var updatedAt sql.NullInt64
	err := row.Scan(
		&customer.ID,
		&customer.Email,
		&customer.Name,
		&customer.Phone,
		&customer.Company,
		&customer.Segment,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return support.Customer{}, ErrNotFound
	}
	if err != nil {
		return support.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	customer.CreatedAt = time.UnixMilli(createdAt).UTC()
	customer.UpdatedAt = optionalTime(updatedAt)
	return customer, nil
}

// CreateTicketParams carries the fields for a new ticket row.
type CreateTicketParams struct {
	Subject    string
	Status     support.TicketStatus
	Priority   support.Priority
	Category   string
	Source     string
	CustomerID string
	CreatedAt  time.Time
}

// CreateTicket inserts a ticket with the next sequential TKT id.
func (s *Store) CreateTicket(ctx context.Context, params CreateTicketParams) (support.Ticket, error) {
	if err := s.ready(ctx); err != nil {
		return support.Ticket{}, err
	}
	if strings.TrimSpace(params.Subject) == "" {
		return support.Ticket{}, fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(params.CustomerID) == "" {
		return support.Ticket{}, fmt.Errorf("customer id is required")
	}
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return support.Ticket{}, fmt.Errorf("begin ticket insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM tickets`).Scan(&seq); err != nil {
		return support.Ticket{}, fmt.Errorf("next ticket sequence: %w", err)
	}
	ticket := support.Ticket{
		ID:         fmt.Sprintf("TKT-%d", seq),
		Subject:    strings.TrimSpace(params.Subject),
		Status:     params.Status,
		Priority:   params.Priority,
		Category:   strings.TrimSpace(params.Category),
		Source:     strings.TrimSpace(params.Source),
		CustomerID: strings.TrimSpace(params.CustomerID),
		CreatedAt:  createdAt.UTC(),
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO tickets (id, seq, subject, status, priority, category, source, customer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID,
		seq,
		ticket.Subject,
		string(ticket.Status),
		string(ticket.Priority),
		ticket.Category,
		ticket.Source,
		ticket.CustomerID,
		ticket.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return support.Ticket{}, fmt.Errorf("insert ticket: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return support.Ticket{}, fmt.Errorf("commit ticket insert: %w", err)
	}
	return ticket, nil
}

// UpdateTicketStatus moves a ticket to a new status. Resolved statuses also
// record who resolved it and when.
func (s *Store) UpdateTicketStatus(ctx context.Context, ticketID string, status support.TicketStatus, resolvedBy string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	now := time.Now().UTC().UnixMilli()
	var result sql.Result
	var err error
	if status == support.StatusResolved || status == support.StatusClosed {
		result, err = s.sqlDB.ExecContext(
			ctx,
			`UPDATE tickets SET status = ?, resolved_by = ?, resolved_at = ?, updated_at = ? WHERE id = ?`,
			string(status),
			strings.TrimSpace(resolvedBy),
			now,
			now,
			strings.TrimSpace(ticketID),
		)
	} else {
		result, err = s.sqlDB.ExecContext(
			ctx,
			`UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?`,
			string(status),
			now,
			strings.TrimSpace(ticketID),
		)
	}
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConversationParams carries the fields for a new conversation entry.
type ConversationParams struct {
	TicketID   string
	CustomerID string
	Content    string
	Role       support.Role
	Metadata   map[string]any
	CreatedAt  time.Time
}

// AddConversation appends one message to a ticket's thread.
func (s *Store) AddConversation(ctx context.Context, params ConversationParams) (support.Conversation, error) {
	if err := s.ready(ctx); err != nil {
		return support.Conversation{}, err
	}
	if strings.TrimSpace(params.TicketID) == "" {
		return support.Conversation{}, fmt.Errorf("ticket id is required")
	}
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	metadata := ""
	if len(params.Metadata) > 0 {
		encoded, err := json.Marshal(params.Metadata)
		if err != nil {
			return support.Conversation{}, fmt.Errorf("encode conversation metadata: %w", err)
		}
		metadata = string(encoded)
	}
	entry := support.Conversation{
		ID:         uuid.NewString(),
		TicketID:   strings.TrimSpace(params.TicketID),
		CustomerID: strings.TrimSpace(params.CustomerID),
		Content:    params.Content,
		Role:       params.Role,
		Metadata:   params.Metadata,
		CreatedAt:  createdAt.UTC(),
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO conversations (id, ticket_id, customer_id, content, role, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.TicketID,
		entry.CustomerID,
		entry.Content,
		string(entry.Role),
		metadata,
		entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return support.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return entry, nil
}

// ApprovalParams carries the fields for a new pending approval.
type ApprovalParams struct {
	TicketID     string
	ActionType   string
	AISuggestion string
	Confidence   float64
	CreatedAt    time.Time
}

// CreateApproval inserts a pending approval for an AI-suggested action.
func (s *Store) CreateApproval(ctx context.Context, params ApprovalParams) (support.Approval, error) {
	if err := s.ready(ctx); err != nil {
		return support.Approval{}, err
	}
	if strings.TrimSpace(params.TicketID) == "" {
		return support.Approval{}, fmt.Errorf("ticket id is required")
	}
	if strings.TrimSpace(params.ActionType) == "" {
		return support.Approval{}, fmt.Errorf("action type is required")
	}
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	approval := support.Approval{
		ID:           uuid.NewString(),
		TicketID:     strings.TrimSpace(params.TicketID),
		ActionType:   strings.TrimSpace(params.ActionType),
		AISuggestion: params.AISuggestion,
		Status:       support.ApprovalPending,
		CreatedAt:    createdAt.UTC(),
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO approvals (id, ticket_id, action_type, ai_suggestion, confidence, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		approval.ID,
		approval.TicketID,
		approval.ActionType,
		approval.AISuggestion,
		params.Confidence,
		string(approval.Status),
		approval.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return support.Approval{}, fmt.Errorf("insert approval: %w", err)
	}
	return approval, nil
}

// DecideApproval records a human decision on a pending approval. The
// approval must belong to the named ticket and still be pending.
func (s *Store) DecideApproval(ctx context.Context, ticketID string, approvalID string, approved bool, reason string, decidedBy string) (support.Approval, error) {
	if err := s.ready(ctx); err != nil {
		return support.Approval{}, err
	}
	ticketID = strings.TrimSpace(ticketID)
	approvalID = strings.TrimSpace(approvalID)

	var status string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT status FROM approvals WHERE id = ? AND ticket_id = ?`,
		approvalID,
		ticketID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return support.Approval{}, ErrNotFound
	}
	if err != nil {
		return support.Approval{}, fmt.Errorf("load approval: %w", err)
	}
	if support.ApprovalStatus(status) != support.ApprovalPending {
		return support.Approval{}, ErrAlreadyDecided
	}

	decision := support.ApprovalRejected
	if approved {
		decision = support.ApprovalApproved
	}
	now := time.Now().UTC()
	_, err = s.sqlDB.ExecContext(
		ctx,
		`UPDATE approvals SET status = ?, approved_by = ?, reason = ?, decided_at = ? WHERE id = ?`,
		string(decision),
		strings.TrimSpace(decidedBy),
		strings.TrimSpace(reason),
		now.UnixMilli(),
		approvalID,
	)
	if err != nil {
		return support.Approval{}, fmt.Errorf("decide approval: %w", err)
	}
	return s.approvalByID(ctx, approvalID)
}

func (s *Store) approvalByID(ctx context.Context, approvalID string) (support.Approval, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, ticket_id, action_type, ai_suggestion, status, approved_by, reason, created_at, decided_at
		 FROM approvals WHERE id = ?`,
		approvalID,
	)
	var approval support.Approval
	var createdAt int64
	var decidedAt sql.NullInt64
	err := row.Scan(
		&approval.ID,
		&approval.TicketID,
		&approval.ActionType,
		&approval.AISuggestion,
		&approval.Status,
		&approval.ApprovedBy,
		&approval.Reason,
		&createdAt,
		&decidedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return support.Approval{}, ErrNotFound
	}
	if err != nil {
		return support.Approval{}, fmt.Errorf("scan approval: %w", err)
	}
	approval.CreatedAt = time.UnixMilli(createdAt).UTC()
	approval.DecidedAt = optionalTime(decidedAt)
	return approval, nil
}

// ListQuery carries the server-side listing filters.
type ListQuery struct {
	Status   string
	Category string
	Priority string
	Limit    int
	Offset   int
}

// defaultListLimit bounds unfiltered listing responses.
const defaultListLimit = 100

// ListTickets returns lightweight ticket rows, newest first, with an
// embedded customer preview.
func (s *Store) ListTickets(ctx context.Context, query ListQuery) ([]support.Ticket, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	clauses := []string{}
	args := []any{}
	if status := strings.TrimSpace(query.Status); status != "" {
		clauses = append(clauses, "t.status = ?")
		args = append(args, strings.ToUpper(status))
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		clauses = append(clauses, "t.category = ?")
		args = append(args, category)
	}
	if priority := strings.TrimSpace(query.Priority); priority != "" {
		clauses = append(clauses, "t.priority = ?")
		args = append(args, strings.ToUpper(priority))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT t.id, t.subject, t.status, t.priority, t.category, t.source, t.customer_id,
		        t.assigned_to, t.resolved_by, t.created_at, t.updated_at, t.resolved_at,
		        c.id, c.email, c.name, c.created_at
		 FROM tickets t
		 JOIN customers c ON c.id = t.customer_id`+where+`
		 ORDER BY t.created_at DESC, t.seq DESC
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tickets := []support.Ticket{}
	for rows.Next() {
		var ticket support.Ticket
		var customer support.Customer
		var createdAt, customerCreatedAt int64
		var updatedAt, resolvedAt sql.NullInt64
		err := rows.Scan(
			&ticket.ID,
			&ticket.Subject,
			&ticket.Status,
			&ticket.Priority,
			&ticket.Category,
			&ticket.Source,
			&ticket.CustomerID,
			&ticket.AssignedTo,
			&ticket.ResolvedBy,
			&createdAt,
			&updatedAt,
			&resolvedAt,
			&customer.ID,
			&customer.Email,
			&customer.Name,
			&customerCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		ticket.CreatedAt = time.UnixMilli(createdAt).UTC()
		ticket.UpdatedAt = optionalTime(updatedAt)
		ticket.ResolvedAt = optionalTime(resolvedAt)
		ticket.CustomerEmail = customer.Email
		customer.CreatedAt = time.UnixMilli(customerCreatedAt).UTC()
		ticket.Customer = &customer
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket rows: %w", err)
	}
	return tickets, nil
}

// GetTicket returns one ticket with customer, conversations (oldest first),
// and approvals.
func (s *Store) GetTicket(ctx context.Context, ticketID string) (support.Ticket, error) {
	if err := s.ready(ctx); err != nil {
		return support.Ticket{}, err
	}
	ticketID = strings.TrimSpace(ticketID)
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, subject, status, priority, category, source, customer_id,
		        assigned_to, resolved_by, created_at, updated_at, resolved_at
		 FROM tickets WHERE id = ?`,
		ticketID,
	)
	var ticket support.Ticket
	var createdAt int64
	var updatedAt, resolvedAt sql.NullInt64
	err := row.Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.Source,
		&ticket.CustomerID,
		&ticket.AssignedTo,
		&ticket.ResolvedBy,
		&createdAt,
		&updatedAt,
		&resolvedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return support.Ticket{}, ErrNotFound
	}
	if err != nil {
		return support.Ticket{}, fmt.Errorf("load ticket: %w", err)
	}
	ticket.CreatedAt = time.UnixMilli(createdAt).UTC()
	ticket.UpdatedAt = optionalTime(updatedAt)
	ticket.ResolvedAt = optionalTime(resolvedAt)

	customer, err := s.customerByID(ctx, ticket.CustomerID)
	if err == nil {
		ticket.Customer = &customer
		ticket.CustomerEmail = customer.Email
	} else if !errors.Is(err, ErrNotFound) {
		return support.Ticket{}, err
	}

	ticket.Conversations, err = s.conversationsForTicket(ctx, ticketID)
	if err != nil {
		return support.Ticket{}, err
	}
	ticket.Approvals, err = s.approvalsForTicket(ctx, ticketID)
	if err != nil {
		return support.Ticket{}, err
	}
	return ticket, nil
}

func (s *Store) conversationsForTicket(ctx context.Context, ticketID string) ([]support.Conversation, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, ticket_id, customer_id, content, role, metadata, created_at
		 FROM conversations WHERE ticket_id = ? ORDER BY created_at ASC`,
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []support.Conversation
	for rows.Next() {
		var entry support.Conversation
		var metadata string
		var createdAt int64
		err := rows.Scan(&entry.ID, &entry.TicketID, &entry.CustomerID, &entry.Content, &entry.Role, &metadata, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("decode conversation metadata: %w", err)
			}
		}
		entry.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation rows: %w", err)
	}
	return entries, nil
}

func (s *Store) approvalsForTicket(ctx context.Context, ticketID string) ([]support.Approval, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, ticket_id, action_type, ai_suggestion, status, approved_by, reason, created_at, decided_at
		 FROM approvals WHERE ticket_id = ? ORDER BY created_at ASC`,
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var approvals []support.Approval
	for rows.Next() {
		var approval support.Approval
		var createdAt int64
		var decidedAt sql.NullInt64
		err := rows.Scan(
			&approval.ID,
			&approval.TicketID,
			&approval.ActionType,
			&approval.AISuggestion,
			&approval.Status,
			&approval.ApprovedBy,
			&approval.Reason,
			&createdAt,
			&decidedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan approval row: %w", err)
		}
		approval.CreatedAt = time.UnixMilli(createdAt).UTC()
		approval.DecidedAt = optionalTime(decidedAt)
		approvals = append(approvals, approval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approval rows: %w", err)
	}
	return approvals, nil
}

func optionalTime(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	parsed := time.UnixMilli(value.Int64).UTC()
	return &parsed
}
