package preferences

import (
	"context"
	"errors"
	"strings"
)

var ErrUnknownView = errors.New("unknown view")

// Views that persist filter state.
const (
	ViewITQueue    = "it_queue"
	ViewApprovals  = "approvals"
	ViewTimesheets = "timesheets"
	ViewAdminUsers = "admin_users"
)

func KnownView(v string) bool {
	switch v {
	case ViewITQueue, ViewApprovals, ViewTimesheets, ViewAdminUsers:
		return true
	}
	return false
}

type ViewPreferences struct {
	View          string   `json:"view"`
	StatusFilters []string `json:"statusFilters"`
	TypeFilters   []string `json:"typeFilters"`
	DateFrom      string   `json:"dateFrom"`
	DateTo        string   `json:"dateTo"`
	SortField     string   `json:"sortField"`
	SortOrder     string   `json:"sortOrder"`
}

// Normalize trims values, drops empty and duplicate filters and defaults the order.
func (p ViewPreferences) Normalize() ViewPreferences {
	p.StatusFilters = dedupe(p.StatusFilters)
	p.TypeFilters = dedupe(p.TypeFilters)
	p.DateFrom = strings.TrimSpace(p.DateFrom)
	p.DateTo = strings.TrimSpace(p.DateTo)
	p.SortField = strings.TrimSpace(p.SortField)
	switch strings.ToLower(p.SortOrder) {
	case "asc":
		p.SortOrder = "asc"
	default:
		p.SortOrder = "desc"
	}
	return p
}

func dedupe(in []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Defaults is what a view shows when nothing was saved.
func Defaults(view string) ViewPreferences {
	return ViewPreferences{View: view}.Normalize()
}

// Store loads missing or unreadable preferences as Defaults, never as an error.
type Store interface {
	Load(ctx context.Context, userID, view string) (ViewPreferences, error)
	Save(ctx context.Context, userID string, p ViewPreferences) error
}
