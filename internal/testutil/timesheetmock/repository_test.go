package timesheetmock

import (
	"context"
	"errors"
	"testing"

	domain "ops-portal-backend/internal/domain/timesheet"
)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if _, err := m.GetWeekHeader(ctx, "e", "w"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetWeekHeader default: want context.Canceled, got %v", err)
	}
	if _, err := m.ListEntries(ctx, "e", "w"); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListEntries default: want context.Canceled, got %v", err)
	}
	if err := m.CreateEntry(ctx, &domain.Entry{}); err != nil {
		t.Fatalf("CreateEntry default: want nil, got %v", err)
	}
	if n, err := m.DeleteRow(ctx, "e", "w", "p", "u"); n != 0 || err != nil {
		t.Fatalf("DeleteRow default: got %d, %v", n, err)
	}
}

func TestRepo_UsesFuncs(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("boom")
	called := false
	m := &Repo{
		SaveWeekHeaderFn: func(gotCtx context.Context, h *domain.WeekHeader) error {
			called = true
			if gotCtx != ctx || h.EmployeeID != "emp" {
				t.Fatalf("SaveWeekHeader args mismatch")
			}
			return wantErr
		},
		ListProjectEntriesFn: func(_ context.Context, projectID, weekStart string) ([]domain.Entry, error) {
			return []domain.Entry{{ProjectID: projectID, WeekStart: weekStart}}, nil
		},
	}
	if err := m.SaveWeekHeader(ctx, &domain.WeekHeader{EmployeeID: "emp"}); !errors.Is(err, wantErr) {
		t.Fatalf("SaveWeekHeader: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("SaveWeekHeaderFn not called")
	}
	got, err := m.ListProjectEntries(ctx, "p1", "2025-09-01")
	if err != nil || len(got) != 1 || got[0].ProjectID != "p1" {
		t.Fatalf("ListProjectEntries: got %+v, %v", got, err)
	}
}
