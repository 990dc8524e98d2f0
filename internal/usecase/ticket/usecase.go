package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ops-portal-backend/internal/domain/notification"
	domain "ops-portal-backend/internal/domain/ticket"
	"ops-portal-backend/internal/domain/uow"
	"ops-portal-backend/internal/domain/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Name string
	Role user.Role
}

type AssignInput struct {
	TicketID     string `json:"-"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	AssignerID   string `json:"-"`
	AssignerName string `json:"-"`
	Notes        string `json:"notes"`
}

type Usecase struct {
	uow      uow.UnitOfWork
	notifier notification.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, n notification.Notifier, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, notifier: n, log: log, now: time.Now}
}

func (u *Usecase) ListForAdmin(ctx context.Context, actor Actor, q Query) ([]domain.Ticket, error) {
	if !canSeeQueue(actor.Role) {
		return []domain.Ticket{}, nil
	}
	var all []domain.Ticket
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		all, err = r.Tickets.ListITQueue(ctx)
		return err
	})
	if err != nil {
		u.log.Error("list it queue", zap.String("actor_id", actor.ID), zap.Error(err))
		return nil, err
	}
	return View(all, actor.Role, q), nil
}

func (u *Usecase) GetITSpecialists(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Users.List(ctx, user.RoleITSpecialist, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) History(ctx context.Context, ticketID string) ([]domain.History, error) {
	var out []domain.History
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Tickets.GetByTicketID(ctx, ticketID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var err error
		out, err = r.Tickets.ListHistory(ctx, ticketID)
		return err
	})
	return out, err
}

func (u *Usecase) AssignToITEmployee(ctx context.Context, in AssignInput) (*domain.Ticket, error) {
	return u.assign(ctx, in, domain.ActionAssigned)
}

// ReassignTicket replaces the current assignee.
func (u *Usecase) ReassignTicket(ctx context.Context, in AssignInput) (*domain.Ticket, error) {
	return u.assign(ctx, in, domain.ActionReassigned)
}

func (u *Usecase) assign(ctx context.Context, in AssignInput, action domain.Action) (*domain.Ticket, error) {
	var out *domain.Ticket
	err := u.uow.WithinTicketTx(ctx, in.TicketID, func(r uow.Repos, t *domain.Ticket) error {
		if !Visible(t) {
			return domain.ErrNotVisible
		}
		prev := t.Assignment
		switch action {
		case domain.ActionAssigned:
			if t.IsAssigned() {
				return domain.ErrAlreadyAssigned
			}
		case domain.ActionReassigned:
			if !t.IsAssigned() {
				return domain.ErrNotAssigned
			}
			if prev.AssignedToID == in.EmployeeID {
				return domain.ErrSameAssignee
			}
		}

		assignee, err := r.Users.GetByUserID(ctx, in.EmployeeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotITSpecialist
		}
		if err != nil {
			return err
		}
		if assignee.Role != user.RoleITSpecialist || !assignee.IsActive {
			return domain.ErrNotITSpecialist
		}
		name := strings.TrimSpace(in.EmployeeName)
		if name == "" {
			name = assignee.Name
		}

		now := u.now().UTC()
		t.Assignment = domain.Assignment{
			AssignedToID:   assignee.UserID,
			AssignedToName: name,
			AssignedBy:     in.AssignerID,
			AssignedByName: in.AssignerName,
			AssignedAt:     &now,
			Notes:          strings.TrimSpace(in.Notes),
		}
		t.Status = domain.StatusAssigned
		if err := r.Tickets.Save(ctx, t); err != nil {
			return err
		}
		if err := r.Tickets.AddHistory(ctx, &domain.History{
			TicketID:  t.TicketID,
			Action:    action,
			FromID:    prev.AssignedToID,
			FromName:  prev.AssignedToName,
			ToID:      assignee.UserID,
			ToName:    name,
			ActorID:   in.AssignerID,
			ActorName: in.AssignerName,
			Notes:     t.Assignment.Notes,
		}); err != nil {
			return err
		}
		out = t
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = domain.ErrNotFound
	}
	if err != nil {
		fields := []zap.Field{zap.String("ticket_id", in.TicketID), zap.String("assignee_id", in.EmployeeID), zap.String("action", string(action)), zap.Error(err)}
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrNotVisible) || errors.Is(err, domain.ErrAlreadyAssigned) ||
			errors.Is(err, domain.ErrNotAssigned) || errors.Is(err, domain.ErrSameAssignee) || errors.Is(err, domain.ErrNotITSpecialist) {
			u.log.Warn("ticket assignment rejected", fields...)
		} else {
			u.log.Error("ticket assignment failed", fields...)
		}
		return nil, err
	}

	u.notifier.Notify(ctx, notification.Notification{
		UserID:      out.Assignment.AssignedToID,
		Role:        string(user.RoleITSpecialist),
		Type:        notification.TypeTicketAssigned,
		Title:       "Ticket assigned",
		Description: fmt.Sprintf("%s: %s", out.TicketNumber, out.Subject),
	})
	return out, nil
}
