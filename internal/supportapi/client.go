// Package supportapi implements the HTTP client for the external support
// API. It attaches the caller's bearer token when one is available, requests
// non-cached responses, normalizes legacy bare-array listing payloads, and
// converts every failure into a typed APIError. There is no retry, backoff,
// or circuit breaking here.
package supportapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/helpdeck-io/helpdeck/internal/platform/timeouts"
	"github.com/helpdeck-io/helpdeck/internal/support"
)

const tracerName = "github.com/helpdeck-io/helpdeck/internal/supportapi"

// maxErrorBodyBytes caps how much of an error response body is read for the
// error message.
const maxErrorBodyBytes = 4 << 10

// TokenSource yields the bearer token for outbound calls. Returning false
// sends the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, bool)

// Token implements TokenSource.
func (f TokenSourceFunc) Token(ctx context.Context) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(ctx)
}

// Client calls the support API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	tracer     trace.Tracer
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTokenSource supplies the bearer token source for outbound calls.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// New builds a support API client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("support api base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse support api base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("support api base url %q must be absolute", baseURL)
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeouts.SupportAPIRequest},
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ListTickets fetches a page of tickets with optional server-side filters.
// A bare-array response is normalized into TicketList with Total set to the
// array length.
func (c *Client) ListTickets(ctx context.Context, query ListTicketsQuery) (TicketList, error) {
	values := url.Values{}
	if status := strings.TrimSpace(query.Status); status != "" {
		values.Set("status", status)
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		values.Set("category", category)
	}
	if priority := strings.TrimSpace(query.Priority); priority != "" {
		values.Set("priority", priority)
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		values.Set("offset", strconv.Itoa(query.Offset))
	}

	body, err := c.do(ctx, "ListTickets", http.MethodGet, "/api/v1/tickets", values, nil)
	if err != nil {
		return TicketList{}, err
	}
	return normalizeTicketList(body)
}

// GetTicket fetches one ticket with its conversation thread and approvals.
func (c *Client) GetTicket(ctx context.Context, ticketID string) (support.Ticket, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return support.Ticket{}, &APIError{Message: "ticket id is required"}
	}
	body, err := c.do(ctx, "GetTicket", http.MethodGet, "/api/v1/tickets/"+url.PathEscape(ticketID), nil, nil)
	if err != nil {
		return support.Ticket{}, err
	}
	var ticket support.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return support.Ticket{}, &APIError{Message: "malformed ticket response", Cause: err}
	}
	return ticket, nil
}

// SubmitQuery sends a new customer query for backend processing.
func (c *Client) SubmitQuery(ctx context.Context, request QueryRequest) (QueryReceipt, error) {
	if strings.TrimSpace(request.CustomerEmail) == "" {
		return QueryReceipt{}, &APIError{Message: "customer email is required"}
	}
	if strings.TrimSpace(request.Query) == "" {
		return QueryReceipt{}, &APIError{Message: "query text is required"}
	}
	body, err := c.do(ctx, "SubmitQuery", http.MethodPost, "/api/v1/tickets/process-query", nil, request)
	if err != nil {
		return QueryReceipt{}, err
	}
	var receipt QueryReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return QueryReceipt{}, &APIError{Message: "malformed query response", Cause: err}
	}
	return receipt, nil
}

// Approve records a human decision on a pending AI-action approval.
func (c *Client) Approve(ctx context.Context, ticketID string, decision ApprovalDecision) (ApprovalReceipt, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return ApprovalReceipt{}, &APIError{Message: "ticket id is required"}
	}
	if strings.TrimSpace(decision.ApprovalID) == "" {
		return ApprovalReceipt{}, &APIError{Message: "approval id is required"}
	}
	body, err := c.do(ctx, "Approve", http.MethodPost, "/api/v1/tickets/"+url.PathEscape(ticketID)+"/approve", nil, decision)
	if err != nil {
		return ApprovalReceipt{}, err
	}
	var receipt ApprovalReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return ApprovalReceipt{}, &APIError{Message: "malformed approval response", Cause: err}
	}
	return receipt, nil
}

// DashboardMetrics fetches the aggregate ticket analytics.
func (c *Client) DashboardMetrics(ctx context.Context) (DashboardMetrics, error) {
	body, err := c.do(ctx, "DashboardMetrics", http.MethodGet, "/api/v1/analytics/dashboard", nil, nil)
	if err != nil {
		return DashboardMetrics{}, err
	}
	var metrics DashboardMetrics
	if err := json.Unmarshal(body, &metrics); err != nil {
		return DashboardMetrics{}, &APIError{Message: "malformed analytics response", Cause: err}
	}
	return metrics, nil
}

// AIPerformance fetches the AI-agent performance analytics.
func (c *Client) AIPerformance(ctx context.Context) (AIPerformance, error) {
	body, err := c.do(ctx, "AIPerformance", http.MethodGet, "/api/v1/analytics/ai-performance", nil, nil)
	if err != nil {
		return AIPerformance{}, err
	}
	var metrics AIPerformance
	if err := json.Unmarshal(body, &metrics); err != nil {
		return AIPerformance{}, &APIError{Message: "malformed ai performance response", Cause: err}
	}
	return metrics, nil
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) (Health, error) {
	body, err := c.do(ctx, "Health", http.MethodGet, "/health", nil, nil)
	if err != nil {
		return Health{}, err
	}
	var health Health
	if err := json.Unmarshal(body, &health); err != nil {
		return Health{}, &APIError{Message: "malformed health response", Cause: err}
	}
	return health, nil
}

func (c *Client) do(ctx context.Context, operation string, method string, path string, query url.Values, payload any) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "supportapi."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			span.SetStatus(codes.Error, "encode request")
			return nil, &APIError{Message: "encode request payload", Cause: err}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), bodyReader)
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return nil, &APIError{Message: "build request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok && strings.TrimSpace(token) != "" {
			req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, &APIError{Message: "support service unreachable", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessageFromBody(resp.Body, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "read response")
		return nil, &APIError{Message: "read response body", Cause: err}
	}
	return body, nil
}

// normalizeTicketList accepts either the legacy bare-array listing payload
// or the object form and always returns the object form.
func normalizeTicketList(body []byte) (TicketList, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tickets []support.Ticket
		if err := json.Unmarshal(body, &tickets); err != nil {
			return TicketList{}, &APIError{Message: "malformed ticket list response", Cause: err}
		}
		return TicketList{Tickets: tickets, Total: len(tickets)}, nil
	}
	var list TicketList
	if err := json.Unmarshal(body, &list); err != nil {
		return TicketList{}, &APIError{Message: "malformed ticket list response", Cause: err}
	}
	return list, nil
}

// errorMessageFromBody extracts a usable message from an error response.
// Backends answer with {"detail": ...} or {"error": ..., "message": ...}; anything
// else falls back to the HTTP status text.
func errorMessageFromBody(body io.Reader, statusCode int) string {
	fallback := http.StatusText(statusCode)
	if fallback == "" {
		fallback = fmt.Sprintf("unexpected status %d", statusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return fallback
	}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fallback
	}
	if message := strings.TrimSpace(envelope.Message); message != "" {
		return message
	}
	if len(envelope.Detail) > 0 {
		var detailText string
		if err := json.Unmarshal(envelope.Detail, &detailText); err == nil && strings.TrimSpace(detailText) != "" {
			return strings.TrimSpace(detailText)
		}
		var detailObject struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(envelope.Detail, &detailObject); err == nil {
			if message := strings.TrimSpace(detailObject.Message); message != "" {
				return message
			}
			if message := strings.TrimSpace(detailObject.Error); message != "" {
				return message
			}
		}
	}
	if message := strings.TrimSpace(envelope.Error); message != "" {
		return message
	}
	return fallback
}
