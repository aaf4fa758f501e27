// Package module defines the feature contract used by web composition.
package module

import (
	"context"
	"net/http"

	"github.com/helpdeck-io/helpdeck/internal/services/web/prefs"
	"github.com/helpdeck-io/helpdeck/internal/support"
	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// Viewer contains user-facing chrome data for authenticated app pages.
type Viewer struct {
	DisplayName string
	Email       string
}

// ResolveViewer resolves app chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveSignedIn reports whether the request is associated with a signed-in actor.
type ResolveSignedIn func(*http.Request) bool

// ResolveUserID resolves the authenticated user id for a request.
type ResolveUserID func(*http.Request) string

// SupportClient exposes the support API operations web modules consume.
type SupportClient interface {
	ListTickets(ctx context.Context, query supportapi.ListTicketsQuery) (supportapi.TicketList, error)
	GetTicket(ctx context.Context, ticketID string) (support.Ticket, error)
	SubmitQuery(ctx context.Context, request supportapi.QueryRequest) (supportapi.QueryReceipt, error)
	Approve(ctx context.Context, ticketID string, decision supportapi.ApprovalDecision) (supportapi.ApprovalReceipt, error)
	DashboardMetrics(ctx context.Context) (supportapi.DashboardMetrics, error)
	AIPerformance(ctx context.Context) (supportapi.AIPerformance, error)
	Health(ctx context.Context) (supportapi.Health, error)
}

// PreferencesStore persists dashboard-local user preferences.
type PreferencesStore interface {
	Account(ctx context.Context, userID string) (prefs.Account, error)
	SaveAccount(ctx context.Context, userID string, account prefs.Account) error
	Notifications(ctx context.Context, userID string) (prefs.Notifications, error)
	SaveNotifications(ctx context.Context, userID string, notifications prefs.Notifications) error
	AIBehavior(ctx context.Context, userID string) (prefs.AIBehavior, error)
	SaveAIBehavior(ctx context.Context, userID string, behavior prefs.AIBehavior) error
}

// Dependencies carries shared composition state into module mounts.
type Dependencies struct {
	Support         SupportClient
	Preferences     PreferencesStore
	ResolveViewer   ResolveViewer
	ResolveSignedIn ResolveSignedIn
	ResolveUserID   ResolveUserID
}

// Mount describes a module route mount. Prefixes are ServeMux patterns the
// composition layer binds the handler under; module routes are registered
// against full paths, so exact and subtree patterns share one handler.
type Mount struct {
	Prefixes []string
	Handler  http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
