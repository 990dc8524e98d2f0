package approval

import (
	"context"
	"sort"
	"strings"

	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/uow"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResolveSelection keeps a candidate when it is checked explicitly, or when its
// employee is checked, it is not unchecked, and its day is selected (no days
// selected means every day).
func ResolveSelection(cands []Candidate, sel Selection) []Candidate {
	entries := toSet(sel.Entries)
	employees := toSet(sel.Employees)
	unchecked := toSet(sel.Unchecked)
	days := map[int]bool{}
	for _, d := range sel.Days {
		days[d] = true
	}

	out := []Candidate{}
	for _, c := range cands {
		switch {
		case entries[c.EntryID]:
			out = append(out, c)
		case employees[c.EmployeeID] && !unchecked[c.EntryID] && (len(days) == 0 || days[c.DayIndex]):
			out = append(out, c)
		}
	}
	return out
}

func toSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

// Candidates lists the pending cells of a project week across every employee who submitted it.
func (u *Usecase) Candidates(ctx context.Context, managerID, projectID, weekStart string) ([]Candidate, error) {
	if _, err := tsDomain.ParseWeekStart(weekStart); err != nil {
		return nil, err
	}
	var out []Candidate
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := u.checkManager(ctx, r, managerID, projectID); err != nil {
			return err
		}
		entries, err := r.Timesheets.ListProjectEntries(ctx, projectID, weekStart)
		if err != nil {
			return err
		}
		employees := map[string]bool{}
		for i := range entries {
			employees[entries[i].EmployeeID] = true
		}
		ids := make([]string, 0, len(employees))
		for e := range employees {
			ids = append(ids, e)
		}
		sort.Strings(ids)
		headers, err := r.Timesheets.ListWeekHeaders(ctx, weekStart, ids)
		if err != nil {
			return err
		}
		open := map[string]bool{}
		for i := range headers {
			open[headers[i].EmployeeID] = reviewable(&headers[i])
		}
		for i := range entries {
			e := &entries[i]
			if open[e.EmployeeID] && pendingCell(e) {
				out = append(out, Candidate{EntryID: e.EntryID, EmployeeID: e.EmployeeID, DayIndex: e.DayIndex})
			}
		}
		return nil
	})
	return out, err
}

// Bulk applies one action to the resolved selection, one call per employee.
// A failing employee is counted and the rest still run.
func (u *Usecase) Bulk(ctx context.Context, in BulkInput) (*BulkResult, error) {
	switch in.Action {
	case ActionApprove:
	case ActionReject:
		if strings.TrimSpace(in.Reason) == "" {
			return nil, ErrReasonRequired
		}
	default:
		return nil, ErrInvalidAction
	}

	cands, err := u.Candidates(ctx, in.ManagerID, in.ProjectID, in.WeekStart)
	if err != nil {
		return nil, err
	}
	selected := ResolveSelection(cands, in.Selection)
	if len(selected) == 0 {
		return nil, ErrNoPendingEntries
	}

	byEmployee := map[string][]string{}
	for _, c := range selected {
		byEmployee[c.EmployeeID] = append(byEmployee[c.EmployeeID], c.EntryID)
	}
	employees := make([]string, 0, len(byEmployee))
	for e := range byEmployee {
		employees = append(employees, e)
	}
	sort.Strings(employees)

	results := make([]EmployeeResult, len(employees))
	run := func(i int) {
		emp := employees[i]
		ref := WeekRef{ManagerID: in.ManagerID, ProjectID: in.ProjectID, EmployeeID: emp, WeekStart: in.WeekStart}
		var (
			res *Result
			err error
		)
		if in.Action == ActionApprove {
			res, err = u.Approve(ctx, ApproveInput{WeekRef: ref, Scope: Scope{EntryIDs: byEmployee[emp]}})
		} else {
			reverts := make([]Revert, 0, len(byEmployee[emp]))
			for _, id := range byEmployee[emp] {
				reverts = append(reverts, Revert{EntryID: id, Reason: in.Reason})
			}
			res, err = u.RequestRevision(ctx, RevisionInput{WeekRef: ref, Reverts: reverts})
		}
		results[i] = EmployeeResult{EmployeeID: emp}
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		results[i].Transitioned = res.Transitioned
	}

	if u.concurrency <= 1 {
		for i := range employees {
			run(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(u.concurrency)
		for i := range employees {
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	out := &BulkResult{Results: results}
	for _, r := range results {
		if r.Error != "" {
			out.Failed++
			continue
		}
		out.Succeeded++
		out.Transitioned += r.Transitioned
	}
	u.log.Info("bulk review finished",
		zap.String("action", string(in.Action)),
		zap.String("project_id", in.ProjectID),
		zap.String("week_start", in.WeekStart),
		zap.Int("succeeded", out.Succeeded),
		zap.Int("failed", out.Failed))
	return out, nil
}
