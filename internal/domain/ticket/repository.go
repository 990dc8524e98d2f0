package ticket

import "context"

type Repository interface {
	// ListITQueue returns IT tickets; the visibility gate is applied by the caller.
	ListITQueue(ctx context.Context) ([]Ticket, error)
	// GetByTicketID returns gorm.ErrRecordNotFound when absent.
	GetByTicketID(ctx context.Context, ticketID string) (*Ticket, error)
	GetByTicketIDForUpdate(ctx context.Context, ticketID string) (*Ticket, error)
	Save(ctx context.Context, t *Ticket) error
	AddHistory(ctx context.Context, h *History) error
	ListHistory(ctx context.Context, ticketID string) ([]History, error)
}
