package approval

import (
	"errors"

	tsDomain "ops-portal-backend/internal/domain/timesheet"
)

var (
	ErrNotProjectManager = errors.New("manager does not own this project")
	ErrNoPendingEntries  = errors.New("no pending entries match the selection")
	ErrReasonRequired    = errors.New("a reason is required to request revision")
	ErrSelectionRequired = errors.New("select at least one day or entry")
	ErrInvalidAction     = errors.New("action must be approve or reject")
)

// WeekRef addresses one employee week as seen by one project's manager.
type WeekRef struct {
	ManagerID  string `json:"managerId"`
	ProjectID  string `json:"projectId"`
	EmployeeID string `json:"employeeId"`
	WeekStart  string `json:"weekStartDate"`
}

// Scope picks cells: entry ids first, then day indices, else every pending cell.
type Scope struct {
	EntryIDs   []string `json:"entryIds"`
	DayIndices []int    `json:"dayIndices"`
}

type ApproveInput struct {
	WeekRef
	Scope
}

// Revert targets an entry by id, or a day optionally narrowed to one category.
type Revert struct {
	EntryID  string `json:"entryId,omitempty"`
	DayIndex int    `json:"dayIndex"`
	UDAID    string `json:"udaId,omitempty"`
	Reason   string `json:"reason"`
}

type RevisionInput struct {
	WeekRef
	Reverts []Revert `json:"reverts"`
}

type Result struct {
	Week         *tsDomain.Week `json:"week"`
	Transitioned int            `json:"transitioned"`
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Selection is the three checkbox sets of the bulk approval screen.
type Selection struct {
	Employees []string `json:"employees"`
	Days      []int    `json:"days"`
	Entries   []string `json:"entries"`
	Unchecked []string `json:"unchecked"`
}

type BulkInput struct {
	ManagerID string    `json:"managerId"`
	ProjectID string    `json:"projectId"`
	WeekStart string    `json:"weekStartDate"`
	Action    Action    `json:"action"`
	Reason    string    `json:"reason"`
	Selection Selection `json:"selection"`
}

// Candidate is one pending cell a bulk action may touch.
type Candidate struct {
	EntryID    string `json:"entryId"`
	EmployeeID string `json:"employeeId"`
	DayIndex   int    `json:"dayIndex"`
}

type EmployeeResult struct {
	EmployeeID   string `json:"employeeId"`
	Transitioned int    `json:"transitioned"`
	Error        string `json:"error,omitempty"`
}

type BulkResult struct {
	Succeeded    int              `json:"succeeded"`
	Failed       int              `json:"failed"`
	Transitioned int              `json:"transitioned"`
	Results      []EmployeeResult `json:"results"`
}
