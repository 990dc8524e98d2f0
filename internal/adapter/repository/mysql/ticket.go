package mysql

import (
	"context"

	ticketDomain "ops-portal-backend/internal/domain/ticket"

	"gorm.io/gorm"
)

type TicketRepository struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) *TicketRepository { return &TicketRepository{db: db} }

func (r *TicketRepository) ListITQueue(ctx context.Context) ([]ticketDomain.Ticket, error) {
	var out []ticketDomain.Ticket
	res := r.db.WithContext(ctx).
		Where("module = ?", ticketDomain.ModuleIT).
		Order("created_at DESC, ticket_number ASC").
		Find(&out)
	return out, res.Error
}

func (r *TicketRepository) GetByTicketID(ctx context.Context, ticketID string) (*ticketDomain.Ticket, error) {
	var out ticketDomain.Ticket
	res := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&out)
	return &out, res.Error
}

func (r *TicketRepository) GetByTicketIDForUpdate(ctx context.Context, ticketID string) (*ticketDomain.Ticket, error) {
	var out ticketDomain.Ticket
	res := forUpdate(r.db.WithContext(ctx)).Where("ticket_id = ?", ticketID).First(&out)
	return &out, res.Error
}

func (r *TicketRepository) Save(ctx context.Context, t *ticketDomain.Ticket) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TicketRepository) AddHistory(ctx context.Context, h *ticketDomain.History) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *TicketRepository) ListHistory(ctx context.Context, ticketID string) ([]ticketDomain.History, error) {
	var out []ticketDomain.History
	res := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Order("id ASC").Find(&out)
	return out, res.Error
}
