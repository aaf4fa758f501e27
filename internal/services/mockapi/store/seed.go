package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/helpdeck-io/helpdeck/internal/support"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// SeedFixture is the YAML shape for seed data.
type SeedFixture struct {
	Tickets []SeedTicket `yaml:"tickets"`
}

// SeedTicket describes one seeded ticket with its thread and approvals.
// AgeHours positions the ticket relative to load time so the listing always
// has recent data.
type SeedTicket struct {
	Subject       string             `yaml:"subject"`
	Status        string             `yaml:"status"`
	Priority      string             `yaml:"priority"`
	Category      string             `yaml:"category"`
	Source        string             `yaml:"source"`
	ResolvedBy    string             `yaml:"resolved_by"`
	AgeHours      float64            `yaml:"age_hours"`
	Customer      SeedCustomer       `yaml:"customer"`
	Conversations []SeedConversation `yaml:"conversations"`
	Approvals     []SeedApproval     `yaml:"approvals"`
}

// SeedCustomer identifies the ticket's customer.
type SeedCustomer struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

// SeedConversation is one seeded thread entry.
type SeedConversation struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// SeedApproval is one seeded approval row.
type SeedApproval struct {
	ActionType   string  `yaml:"action_type"`
	AISuggestion string  `yaml:"ai_suggestion"`
	Confidence   float64 `yaml:"confidence"`
	Status       string  `yaml:"status"`
	Reason       string  `yaml:"reason"`
}

// LoadSeedFixture reads a YAML fixture from path, or the embedded default
// when path is empty.
func LoadSeedFixture(path string) (SeedFixture, error) {
	raw := defaultSeed
	if path = strings.TrimSpace(path); path != "" {
		fileBytes, err := os.ReadFile(path)
		if err != nil {
			return SeedFixture{}, fmt.Errorf("read seed file: %w", err)
		}
		raw = fileBytes
	}
	var fixture SeedFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return SeedFixture{}, fmt.Errorf("decode seed fixture: %w", err)
	}
	return fixture, nil
}

// Seed loads fixture tickets into the store. Tickets are inserted oldest
// first so sequential TKT ids follow creation order.
func (s *Store) Seed(ctx context.Context, fixture SeedFixture) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	ordered := make([]SeedTicket, len(fixture.Tickets))
	copy(ordered, fixture.Tickets)
	sort.SliceStable(ordered, func(left, right int) bool {
		return ordered[left].AgeHours > ordered[right].AgeHours
	})

	now := time.Now().UTC()
	for _, seed := range ordered {
		if err := s.seedTicket(ctx, seed, now); err != nil {
			return fmt.Errorf("seed ticket %q: %w", seed.Subject, err)
		}
	}
	return nil
}

func (s *Store) seedTicket(ctx context.Context, seed SeedTicket, now time.Time) error {
	customer, err := s.EnsureCustomer(ctx, seed.Customer.Email, seed.Customer.Name)
	if err != nil {
		return err
	}

	createdAt := now.Add(-time.Duration(seed.AgeHours * float64(time.Hour)))
	status := support.TicketStatus(strings.ToUpper(strings.TrimSpace(seed.Status)))
	if status == "" {
		status = support.StatusOpen
	}
	priority := support.Priority(strings.ToUpper(strings.TrimSpace(seed.Priority)))
	if priority == "" {
		priority = support.PriorityMedium
	}

	ticket, err := s.CreateTicket(ctx, CreateTicketParams{
		Subject:    seed.Subject,
		Status:     support.StatusOpen,
		Priority:   priority,
		Category:   seed.Category,
		Source:     seed.Source,
		CustomerID: customer.ID,
		CreatedAt:  createdAt,
	})
	if err != nil {
		return err
	}
	if status != support.StatusOpen {
		if err := s.UpdateTicketStatus(ctx, ticket.ID, status, seed.ResolvedBy); err != nil {
			return err
		}
	}

	for idx, entry := range seed.Conversations {
		role := support.Role(strings.ToUpper(strings.TrimSpace(entry.Role)))
		if role == "" {
			role = support.RoleCustomer
		}
		customerID := ""
		if role == support.RoleCustomer {
			customerID = customer.ID
		}
		_, err := s.AddConversation(ctx, ConversationParams{
			TicketID:   ticket.ID,
			CustomerID: customerID,
			Content:    entry.Content,
			Role:       role,
			CreatedAt:  createdAt.Add(time.Duration(idx+1) * 3 * time.Minute),
		})
		if err != nil {
			return err
		}
	}

	for _, entry := range seed.Approvals {
		approval, err := s.CreateApproval(ctx, ApprovalParams{
			TicketID:     ticket.ID,
			ActionType:   entry.ActionType,
			AISuggestion: entry.AISuggestion,
			Confidence:   entry.Confidence,
			CreatedAt:    createdAt.Add(10 * time.Minute),
		})
		if err != nil {
			return err
		}
		decided := support.ApprovalStatus(strings.ToUpper(strings.TrimSpace(entry.Status)))
		if decided == support.ApprovalApproved || decided == support.ApprovalRejected {
			_, err := s.DecideApproval(ctx, ticket.ID, approval.ID, decided == support.ApprovalApproved, entry.Reason, "seed")
			if err != nil {
				return err
			}
		}
	}
	return nil
}
