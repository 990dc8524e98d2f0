package ticketmock

import (
	"context"

	domain "ops-portal-backend/internal/domain/ticket"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	ListITQueueFn            func(ctx context.Context) ([]domain.Ticket, error)
	GetByTicketIDFn          func(ctx context.Context, ticketID string) (*domain.Ticket, error)
	GetByTicketIDForUpdateFn func(ctx context.Context, ticketID string) (*domain.Ticket, error)
	SaveFn                   func(ctx context.Context, t *domain.Ticket) error
	AddHistoryFn             func(ctx context.Context, h *domain.History) error
	ListHistoryFn            func(ctx context.Context, ticketID string) ([]domain.History, error)
}

func (m *Repo) ListITQueue(ctx context.Context) ([]domain.Ticket, error) {
	if m.ListITQueueFn != nil {
		return m.ListITQueueFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if m.GetByTicketIDFn != nil {
		return m.GetByTicketIDFn(ctx, ticketID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByTicketIDForUpdate(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if m.GetByTicketIDForUpdateFn != nil {
		return m.GetByTicketIDForUpdateFn(ctx, ticketID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, t *domain.Ticket) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) AddHistory(ctx context.Context, h *domain.History) error {
	if m.AddHistoryFn != nil {
		return m.AddHistoryFn(ctx, h)
	}
	return nil
}

func (m *Repo) ListHistory(ctx context.Context, ticketID string) ([]domain.History, error) {
	if m.ListHistoryFn != nil {
		return m.ListHistoryFn(ctx, ticketID)
	}
	return nil, context.Canceled
}
