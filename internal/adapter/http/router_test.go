package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ops-portal-backend/internal/adapter/middleware"
	"ops-portal-backend/internal/adapter/notifier"
	prefsAdapter "ops-portal-backend/internal/adapter/preferences"
	"ops-portal-backend/internal/adapter/repository/mysql"
	"ops-portal-backend/internal/domain/allocation"
	"ops-portal-backend/internal/domain/ticket"
	"ops-portal-backend/internal/domain/user"
	"ops-portal-backend/internal/infrastructure/db"
	"ops-portal-backend/internal/usecase/admin"
	"ops-portal-backend/internal/usecase/approval"
	ticketUsecase "ops-portal-backend/internal/usecase/ticket"
	"ops-portal-backend/internal/usecase/timesheet"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// -------- helpers --------

const testWeek = "2025-09-01"

type server struct {
	e      *echo.Echo
	tokens *middleware.TokenManager
}

func newServer(t *testing.T) *server {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	seed := []any{
		&allocation.Project{ProjectID: "p1", Code: "ALPHA", Name: "Alpha", ManagerID: "mgr-1"},
		&allocation.Allocation{EmployeeID: "emp-1", ProjectID: "p1", StartDate: "2025-01-01", Utilization: 100},
		&user.User{UserID: "spec-1", Name: "Sam", Email: "sam@example.com", Role: user.RoleITSpecialist, IsActive: true},
		&ticket.Ticket{TicketID: "t1", TicketNumber: "HD-1", Subject: "VPN down", Module: ticket.ModuleIT, RoutedTo: ticket.RoutedIT, Status: ticket.StatusInQueue, Urgency: "high"},
		&ticket.Ticket{TicketID: "t2", TicketNumber: "HD-2", Subject: "Laptop", Module: ticket.ModuleIT, RoutedTo: ticket.RoutedIT, Status: ticket.StatusPending, RequiresApproval: true},
	}
	for _, s := range seed {
		if err := gdb.Create(s).Error; err != nil {
			t.Fatalf("seed %T: %v", s, err)
		}
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := zap.NewNop()
	tx := mysql.NewGormUoW(gdb)
	inbox := mysql.NewNotificationRepository(gdb)
	notify := notifier.NewSync(notifier.NewStore(inbox, rdb, "ops:notifications"), log)
	clock := func() time.Time { return time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC) }

	tokens := middleware.NewTokenManager("test-secret-0123456789", time.Hour)
	e := echo.New()
	RegisterRoutes(e, Routes{
		Health:         NewHandler(log, nil),
		Timesheets:     NewTimesheetHandler(timesheet.NewUsecase(tx, notify, log, timesheet.WithClock(clock)), log),
		Approvals:      NewApprovalHandler(approval.NewUsecase(tx, notify, log, approval.WithClock(clock)), log),
		Tickets:        NewTicketHandler(ticketUsecase.NewUsecase(tx, notify, log), log),
		Admin:          NewAdminHandler(admin.NewUsecase(tx, log), log),
		Preferences:    NewPreferencesHandler(prefsAdapter.NewRedisStore(rdb, time.Hour, log), inbox, log),
		Log:            log,
		Tokens:         tokens,
		Redis:          rdb,
		IdempotencyTTL: time.Minute,
	})
	return &server{e: e, tokens: tokens}
}

func (s *server) token(t *testing.T, id string, role user.Role) string {
	t.Helper()
	tok, err := s.tokens.Issue(middleware.Actor{UserID: id, Name: "User " + id, Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func idempotent() map[string]string {
	return map[string]string{
		middleware.HeaderIdempotencyKey: uuid.New().String(),
		middleware.HeaderRequestAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *server) do(t *testing.T, method, path, token string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func weekRows(hours ...string) map[string]any {
	h := make([]string, 7)
	copy(h, hours)
	return map[string]any{"rows": []map[string]any{{
		"projectId": "p1", "categoryId": "dev", "categoryName": "Development", "hours": h,
	}}}
}

const weekPath = "/timesheets/emp-1/weeks/" + testWeek

// submitWeek files Monday to Thursday for emp-1.
func (s *server) submitWeek(t *testing.T) {
	t.Helper()
	rec := s.do(t, stdhttp.MethodPost, weekPath+"/submit", s.token(t, "emp-1", user.RoleEmployee),
		weekRows("08:00", "08:00", "08:00", "08:00"), idempotent())
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("submit: status = %d body=%s", rec.Code, rec.Body.String())
	}
}

// -------- tests --------

func TestTimesheetRoutes_Auth(t *testing.T) {
	s := newServer(t)

	if rec := s.do(t, stdhttp.MethodGet, weekPath, "", nil, nil); rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("no token => want 401, got %d", rec.Code)
	}
	if rec := s.do(t, stdhttp.MethodGet, weekPath, s.token(t, "emp-2", user.RoleEmployee), nil, nil); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("other employee => want 403, got %d", rec.Code)
	}
	rec := s.do(t, stdhttp.MethodGet, weekPath, s.token(t, "root", user.RoleSuperAdmin), nil, nil)
	if rec.Code != stdhttp.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("super admin, never saved => want 204, got %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, stdhttp.MethodGet, "/timesheets/emp-1/weeks/2025-09-02", s.token(t, "emp-1", user.RoleEmployee), nil, nil)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("tuesday week start => want 422, got %d", rec.Code)
	}
}

func TestTimesheetRoutes_DraftValidation(t *testing.T) {
	s := newServer(t)
	tok := s.token(t, "emp-1", user.RoleEmployee)

	rec := s.do(t, stdhttp.MethodPut, weekPath+"/draft", tok, weekRows("08:00", "8h"), nil)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad cell => want 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	er := decode[ErrorResponse](t, rec)
	if !containsFieldMsg(er.Details, "rows[0].hours[1]", "HH:mm") {
		t.Fatalf("missing cell detail: %+v", er)
	}

	rec = s.do(t, stdhttp.MethodPut, weekPath+"/draft", tok, weekRows("04:00"), nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("draft => want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	view := decode[timesheet.WeekView](t, rec)
	if view.Version != 1 || len(view.Rows) != 1 || view.Rows[0].Hours[0] != "04:00" {
		t.Fatalf("unexpected view: %+v", view)
	}

	// stale version
	body := weekRows("05:00")
	body["expectedVersion"] = 7
	if rec := s.do(t, stdhttp.MethodPut, weekPath+"/draft", tok, body, nil); rec.Code != stdhttp.StatusConflict {
		t.Fatalf("stale => want 409, got %d", rec.Code)
	}
}

func TestTimesheetRoutes_SubmitShortfallAndReplay(t *testing.T) {
	s := newServer(t)
	tok := s.token(t, "emp-1", user.RoleEmployee)

	if rec := s.do(t, stdhttp.MethodPost, weekPath+"/submit", tok, weekRows("08:00"), nil); rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("submit without idempotency headers => want 400, got %d", rec.Code)
	}

	rec := s.do(t, stdhttp.MethodPost, weekPath+"/submit", tok, weekRows("08:00", "02:00"), idempotent())
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("shortfall => want 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	er := decode[ErrorResponse](t, rec)
	if !containsFieldMsg(er.Details, "Tuesday", "02:00") {
		t.Fatalf("missing shortfall detail: %+v", er)
	}

	hdr := idempotent()
	first := s.do(t, stdhttp.MethodPost, weekPath+"/submit", tok, weekRows("08:00", "08:00"), hdr)
	if first.Code != stdhttp.StatusOK {
		t.Fatalf("submit => want 200, got %d body=%s", first.Code, first.Body.String())
	}
	again := s.do(t, stdhttp.MethodPost, weekPath+"/submit", tok, weekRows("08:00", "08:00"), hdr)
	if again.Code != stdhttp.StatusOK || again.Header().Get("Idempotent-Replayed") != "true" || again.Body.String() != first.Body.String() {
		t.Fatalf("retry must replay: %d %q", again.Code, again.Header().Get("Idempotent-Replayed"))
	}
}

func TestTimesheetRoutes_CellsCopyDelete(t *testing.T) {
	s := newServer(t)
	tok := s.token(t, "emp-1", user.RoleEmployee)

	rec := s.do(t, stdhttp.MethodPatch, weekPath+"/cells", tok, map[string]any{
		"projectId": "p1", "categoryId": "dev", "categoryName": "Development", "dayIndex": 0, "hours": "08:00",
	}, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("edit cell => want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, stdhttp.MethodPatch, weekPath+"/cells", tok, map[string]any{
		"projectId": "p1", "categoryId": "dev", "dayIndex": 9, "hours": "08:00",
	}, nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("day 9 => want 422, got %d", rec.Code)
	}

	rec = s.do(t, stdhttp.MethodPost, weekPath+"/copy-forward", tok, map[string]any{"projectId": "p1", "categoryId": "dev", "sourceDay": 0}, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("copy forward => want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	view := decode[timesheet.WeekView](t, rec)
	if got := view.Rows[0].Hours; got[4] != "08:00" || got[5] != "" {
		t.Fatalf("copy forward must fill weekdays only: %v", got)
	}

	rec = s.do(t, stdhttp.MethodDelete, weekPath+"/rows/p1/dev", tok, nil, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("delete row => want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if res := decode[timesheet.DeleteRowResult](t, rec); res.DeletedCount != 5 {
		t.Fatalf("deleted = %d, want 5", res.DeletedCount)
	}
	if rec := s.do(t, stdhttp.MethodDelete, weekPath+"/rows/p1/dev", tok, nil, nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("delete again => want 404, got %d", rec.Code)
	}
}

func TestApprovalRoutes(t *testing.T) {
	s := newServer(t)
	s.submitWeek(t)
	mgr := s.token(t, "mgr-1", user.RoleManager)
	ref := map[string]any{"projectId": "p1", "employeeId": "emp-1", "weekStartDate": testWeek}

	if rec := s.do(t, stdhttp.MethodPost, "/approvals/approve", s.token(t, "emp-1", user.RoleEmployee), ref, idempotent()); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("employee => want 403, got %d", rec.Code)
	}
	if rec := s.do(t, stdhttp.MethodPost, "/approvals/approve", s.token(t, "mgr-2", user.RoleManager), ref, idempotent()); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("other manager => want 403, got %d", rec.Code)
	}

	rec := s.do(t, stdhttp.MethodGet, "/approvals/timesheet?project_id=p1&employee_id=emp-1&week_start="+testWeek, mgr, nil, nil)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"status":"submitted"`) {
		t.Fatalf("review week => %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, stdhttp.MethodPost, "/approvals/request-revision", mgr, map[string]any{
		"projectId": "p1", "employeeId": "emp-1", "weekStartDate": testWeek,
		"reverts": []map[string]any{{"dayIndex": 0, "reason": " "}},
	}, idempotent())
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("blank reason => want 422, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := map[string]any{"projectId": "p1", "employeeId": "emp-1", "weekStartDate": testWeek, "dayIndices": []int{0, 1}}
	rec = s.do(t, stdhttp.MethodPost, "/approvals/approve", mgr, body, idempotent())
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("approve days => want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if res := decode[approval.Result](t, rec); res.Transitioned != 2 {
		t.Fatalf("transitioned = %d, want 2", res.Transitioned)
	}
	if rec := s.do(t, stdhttp.MethodPost, "/approvals/approve", mgr, body, idempotent()); rec.Code != stdhttp.StatusConflict {
		t.Fatalf("nothing pending => want 409, got %d", rec.Code)
	}

	rec = s.do(t, stdhttp.MethodGet, "/approvals/candidates?project_id=p1&week_start="+testWeek, mgr, nil, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("candidates => %d", rec.Code)
	}
	if got := decode[map[string][]approval.Candidate](t, rec)["candidates"]; len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}

	if rec := s.do(t, stdhttp.MethodPost, "/approvals/bulk", mgr, map[string]any{
		"projectId": "p1", "weekStartDate": testWeek, "action": "reject",
		"selection": map[string]any{"employees": []string{"emp-1"}},
	}, idempotent()); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("reject without reason => want 422, got %d", rec.Code)
	}
	rec = s.do(t, stdhttp.MethodPost, "/approvals/bulk", mgr, map[string]any{
		"projectId": "p1", "weekStartDate": testWeek, "action": "approve",
		"selection": map[string]any{"employees": []string{"emp-1"}},
	}, idempotent())
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("bulk => want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if res := decode[approval.BulkResult](t, rec); res.Succeeded != 1 || res.Transitioned != 2 {
		t.Fatalf("unexpected bulk result: %+v", res)
	}

	// every approval reached the employee inbox
	rec = s.do(t, stdhttp.MethodGet, "/notifications", s.token(t, "emp-1", user.RoleEmployee), nil, nil)
	if got := strings.Count(rec.Body.String(), `"type":"timesheet_approved"`); got != 2 {
		t.Fatalf("approved notifications = %d, want 2; body=%s", got, rec.Body.String())
	}
}

func TestTicketRoutes(t *testing.T) {
	s := newServer(t)
	itAdmin := s.token(t, "it-1", user.RoleITAdmin)

	if rec := s.do(t, stdhttp.MethodGet, "/tickets/it", s.token(t, "emp-1", user.RoleEmployee), nil, nil); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("employee => want 403, got %d", rec.Code)
	}
	rec := s.do(t, stdhttp.MethodGet, "/tickets/it?tab=unassigned", itAdmin, nil, nil)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Fatalf("queue must hide unapproved tickets: %d %s", rec.Code, rec.Body.String())
	}

	assign := map[string]any{"employeeId": "spec-1"}
	rec = s.do(t, stdhttp.MethodPost, "/tickets/t1/assign", itAdmin, assign, idempotent())
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"assignedToName":"Sam"`) {
		t.Fatalf("assign => %d %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, stdhttp.MethodPost, "/tickets/t1/assign", itAdmin, assign, idempotent()); rec.Code != stdhttp.StatusConflict {
		t.Fatalf("assign twice => want 409, got %d", rec.Code)
	}
	if rec := s.do(t, stdhttp.MethodPost, "/tickets/t2/assign", itAdmin, assign, idempotent()); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("outside the queue => want 403, got %d", rec.Code)
	}
	if rec := s.do(t, stdhttp.MethodPost, "/tickets/nope/assign", itAdmin, assign, idempotent()); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing ticket => want 404, got %d", rec.Code)
	}

	rec = s.do(t, stdhttp.MethodGet, "/tickets/t1/history", itAdmin, nil, nil)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"action":"assigned"`) {
		t.Fatalf("history => %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, stdhttp.MethodGet, "/it-specialists", itAdmin, nil, nil)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"id":"spec-1"`) {
		t.Fatalf("specialists => %d %s", rec.Code, rec.Body.String())
	}
}

func TestPreferencesRoutes(t *testing.T) {
	s := newServer(t)
	tok := s.token(t, "emp-1", user.RoleEmployee)

	rec := s.do(t, stdhttp.MethodGet, "/preferences/it_queue", tok, nil, nil)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"sortOrder":"desc"`) {
		t.Fatalf("defaults => %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, stdhttp.MethodPut, "/preferences/it_queue", tok, map[string]any{
		"view": "ignored", "statusFilters": []string{"open", "open", " "}, "sortField": "urgency", "sortOrder": "ASC",
	}, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("save => %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, stdhttp.MethodGet, "/preferences/it_queue", tok, nil, nil)
	body := rec.Body.String()
	if !strings.Contains(body, `"statusFilters":["open"]`) || !strings.Contains(body, `"sortOrder":"asc"`) || !strings.Contains(body, `"view":"it_queue"`) {
		t.Fatalf("round trip lost state: %s", body)
	}
	if rec := s.do(t, stdhttp.MethodGet, "/preferences/it_queue", s.token(t, "emp-2", user.RoleEmployee), nil, nil); strings.Contains(rec.Body.String(), "urgency") {
		t.Fatalf("preferences must be per user")
	}
	if rec := s.do(t, stdhttp.MethodGet, "/preferences/nope", tok, nil, nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("unknown view => want 404, got %d", rec.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t)
	root := s.token(t, "root", user.RoleSuperAdmin)

	if rec := s.do(t, stdhttp.MethodGet, "/admin/users", s.token(t, "it-1", user.RoleITAdmin), nil, nil); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("it admin => want 403, got %d", rec.Code)
	}

	newUser := map[string]any{"name": "Rio", "email": "rio@example.com", "role": "it_specialist"}
	if rec := s.do(t, stdhttp.MethodPost, "/admin/users", root, newUser, nil); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create user => %d %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, stdhttp.MethodPost, "/admin/users", root, newUser, nil); rec.Code != stdhttp.StatusConflict {
		t.Fatalf("duplicate email => want 409, got %d", rec.Code)
	}
	bad := map[string]any{"name": "X", "email": "not-an-email", "role": "employee"}
	if rec := s.do(t, stdhttp.MethodPost, "/admin/users", root, bad, nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad email => want 422, got %d", rec.Code)
	}
	if rec := s.do(t, stdhttp.MethodPatch, "/admin/users/spec-1", root, map[string]any{"role": "wizard"}, nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad role => want 422, got %d", rec.Code)
	}
	rec := s.do(t, stdhttp.MethodPatch, "/admin/users/spec-1", root, map[string]any{"isActive": false}, nil)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"isActive":false`) {
		t.Fatalf("deactivate => %d %s", rec.Code, rec.Body.String())
	}

	noLevels := map[string]any{"highLevelCategory": "Hardware", "subCategory": "Laptop", "requiresApproval": true}
	if rec := s.do(t, stdhttp.MethodPost, "/admin/categories", root, noLevels, nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("approval without levels => want 422, got %d", rec.Code)
	}
	noLevels["requiresApproval"] = false
	rec = s.do(t, stdhttp.MethodPost, "/admin/categories", root, noLevels, nil)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create category => %d %s", rec.Code, rec.Body.String())
	}
	created := decode[admin.CategoryView](t, rec)

	rec = s.do(t, stdhttp.MethodPut, "/admin/categories/"+created.ConfigID+"/approvers/L2", root, map[string]any{
		"enabled": true, "approvers": []map[string]any{{"userId": "mgr-1", "name": "Mia"}},
	}, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("approvers => %d %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, stdhttp.MethodPut, "/admin/categories/"+created.ConfigID+"/approvers/l9", root, map[string]any{"enabled": true}, nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad level => want 422, got %d", rec.Code)
	}
	if rec := s.do(t, stdhttp.MethodPatch, "/admin/categories/"+created.ConfigID, root, map[string]any{"requiresApproval": true}, nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("update category => %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, stdhttp.MethodGet, "/admin/categories/"+created.ConfigID+"/flow", root, nil, nil)
	if got := decode[map[string]string](t, rec)["flowLabel"]; got != "L2 → Processing Queue" {
		t.Fatalf("flow label = %q", got)
	}
	rec = s.do(t, stdhttp.MethodGet, "/admin/categories?active_only=true", root, nil, nil)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"subCategory":"Laptop"`) {
		t.Fatalf("list categories => %d %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, stdhttp.MethodGet, "/admin/categories/nope/flow", root, nil, nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing category => want 404, got %d", rec.Code)
	}
}
