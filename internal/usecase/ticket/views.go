package ticket

import (
	"sort"
	"strings"

	domain "ops-portal-backend/internal/domain/ticket"
	"ops-portal-backend/internal/domain/user"
)

type Tab string

const (
	TabUnassigned Tab = "unassigned"
	TabAssigned   Tab = "assigned"
	TabAll        Tab = "all"
)

func (t Tab) Valid() bool {
	switch t {
	case TabUnassigned, TabAssigned, TabAll:
		return true
	}
	return false
}

const (
	SortCreatedAt    = "createdAt"
	SortUrgency      = "urgency"
	SortStatus       = "status"
	SortTicketNumber = "ticketNumber"
	SortSubCategory  = "subCategory"
)

// Query narrows the visible queue. Zero values mean all tickets, newest first.
type Query struct {
	Tab       Tab    `query:"tab"`
	Search    string `query:"q"`
	SortField string `query:"sort"`
	SortOrder string `query:"order"`
}

// Visible is the single IT queue gate.
func Visible(t *domain.Ticket) bool {
	return t.Module == domain.ModuleIT &&
		(!t.RequiresApproval || t.ApprovalCompleted) &&
		t.RoutedTo == domain.RoutedIT
}

func canSeeQueue(role user.Role) bool {
	return role == user.RoleITAdmin || role == user.RoleSuperAdmin
}

// VisibleTickets keeps the tickets role may see in the IT queue. Unknown roles see nothing.
func VisibleTickets(tickets []domain.Ticket, role user.Role) []domain.Ticket {
	out := []domain.Ticket{}
	if !canSeeQueue(role) {
		return out
	}
	for i := range tickets {
		if Visible(&tickets[i]) {
			out = append(out, tickets[i])
		}
	}
	return out
}

var unassignedStatuses = statusSet(
	domain.StatusOpen, domain.StatusPending, domain.StatusReopened,
	domain.StatusInQueue, domain.StatusRouted, domain.StatusApproved,
)

var finishedStatuses = statusSet(domain.StatusClosed, domain.StatusResolved, domain.StatusCancelled)

// legacy rows mix the casing of statuses
func statusSet(statuses ...string) map[string]bool {
	m := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		m[strings.ToLower(s)] = true
	}
	return m
}

func inTab(t *domain.Ticket, tab Tab) bool {
	status := strings.ToLower(strings.TrimSpace(t.Status))
	switch tab {
	case TabUnassigned:
		return !t.IsAssigned() && unassignedStatuses[status]
	case TabAssigned:
		return t.IsAssigned() && !finishedStatuses[status]
	default:
		return true
	}
}

func matches(t *domain.Ticket, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{t.TicketNumber, t.Subject, t.UserName, t.SubCategory} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

var urgencyRank = map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}

func rankUrgency(u string) int {
	if r, ok := urgencyRank[strings.ToLower(strings.TrimSpace(u))]; ok {
		return r
	}
	return len(urgencyRank)
}

var statusOrder = []string{
	domain.StatusOpen, domain.StatusPending, domain.StatusReopened, domain.StatusInQueue,
	domain.StatusRouted, domain.StatusApproved, domain.StatusAssigned, domain.StatusProgress,
	domain.StatusResolved, domain.StatusClosed, domain.StatusCancelled,
}

var statusRank = func() map[string]int {
	m := make(map[string]int, len(statusOrder))
	for i, s := range statusOrder {
		m[strings.ToLower(s)] = i
	}
	return m
}()

func rankStatus(s string) int {
	if r, ok := statusRank[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r
	}
	return len(statusOrder)
}

// compare orders a before b on field only; 0 means tied.
func compare(a, b *domain.Ticket, field string) int {
	switch field {
	case SortUrgency:
		return rankUrgency(a.Urgency) - rankUrgency(b.Urgency)
	case SortStatus:
		return rankStatus(a.Status) - rankStatus(b.Status)
	case SortTicketNumber:
		return strings.Compare(a.TicketNumber, b.TicketNumber)
	case SortSubCategory:
		return strings.Compare(strings.ToLower(a.SubCategory), strings.ToLower(b.SubCategory))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// unranked reports whether t carries a value outside the known order of field.
// Such tickets sort last in either direction.
func unranked(t *domain.Ticket, field string) bool {
	switch field {
	case SortUrgency:
		return rankUrgency(t.Urgency) == len(urgencyRank)
	case SortStatus:
		return rankStatus(t.Status) == len(statusOrder)
	default:
		return false
	}
}

// View applies the gate, the tab, the search and the sort.
func View(tickets []domain.Ticket, role user.Role, q Query) []domain.Ticket {
	visible := VisibleTickets(tickets, role)
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := []domain.Ticket{}
	for i := range visible {
		if inTab(&visible[i], q.Tab) && matches(&visible[i], needle) {
			out = append(out, visible[i])
		}
	}

	desc := !strings.EqualFold(q.SortOrder, "asc")
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if ua, ub := unranked(a, q.SortField), unranked(b, q.SortField); ua != ub {
			return ub
		}
		if c := compare(a, b, q.SortField); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		// ties: newest first, then ticket number
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TicketNumber < b.TicketNumber
	})
	return out
}
