package http

import (
	"net/http"

	"ops-portal-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ApprovalHandler struct {
	uc  *approval.Usecase
	log *zap.Logger
}

func NewApprovalHandler(uc *approval.Usecase, log *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{uc: uc, log: log}
}

type reviewWeekQuery struct {
	ProjectID  string `query:"project_id"  validate:"required"`
	EmployeeID string `query:"employee_id" validate:"required"`
	WeekStart  string `query:"week_start"  validate:"weekstart"`
}

type candidatesQuery struct {
	ProjectID string `query:"project_id" validate:"required"`
	WeekStart string `query:"week_start" validate:"weekstart"`
}

type weekRefReq struct {
	ProjectID  string `json:"projectId"     validate:"required"`
	EmployeeID string `json:"employeeId"    validate:"required"`
	WeekStart  string `json:"weekStartDate" validate:"weekstart"`
}

type approveReq struct {
	weekRefReq
	EntryIDs   []string `json:"entryIds"`
	DayIndices []int    `json:"dayIndices" validate:"dive,gte=0,lte=6"`
}

type revisionReq struct {
	weekRefReq
	Reverts []approval.Revert `json:"reverts" validate:"required,min=1"`
}

type bulkReq struct {
	ProjectID string             `json:"projectId"     validate:"required"`
	WeekStart string             `json:"weekStartDate" validate:"weekstart"`
	Action    approval.Action    `json:"action"        validate:"oneof=approve reject"`
	Reason    string             `json:"reason"`
	Selection approval.Selection `json:"selection"`
}

func (r weekRefReq) ref(managerID string) approval.WeekRef {
	return approval.WeekRef{ManagerID: managerID, ProjectID: r.ProjectID, EmployeeID: r.EmployeeID, WeekStart: r.WeekStart}
}

// GetTimesheet returns {"week": null} for weeks that are not up for review.
func (h *ApprovalHandler) GetTimesheet(c echo.Context) error {
	var q reviewWeekQuery
	if ok, err := bindAndValidate(c, &q); !ok {
		return err
	}
	w, err := h.uc.GetApproverTimesheet(c.Request().Context(), approval.WeekRef{
		ManagerID:  actor(c).UserID,
		ProjectID:  q.ProjectID,
		EmployeeID: q.EmployeeID,
		WeekStart:  q.WeekStart,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"week": w})
}

func (h *ApprovalHandler) Candidates(c echo.Context) error {
	var q candidatesQuery
	if ok, err := bindAndValidate(c, &q); !ok {
		return err
	}
	cands, err := h.uc.Candidates(c.Request().Context(), actor(c).UserID, q.ProjectID, q.WeekStart)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"candidates": cands})
}

// Approve takes entry ids, day indices or neither (the whole week).
func (h *ApprovalHandler) Approve(c echo.Context) error {
	var req approveReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.Approve(c.Request().Context(), approval.ApproveInput{
		WeekRef: req.ref(actor(c).UserID),
		Scope:   approval.Scope{EntryIDs: req.EntryIDs, DayIndices: req.DayIndices},
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ApprovalHandler) RequestRevision(c echo.Context) error {
	var req revisionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.RequestRevision(c.Request().Context(), approval.RevisionInput{
		WeekRef: req.ref(actor(c).UserID),
		Reverts: req.Reverts,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Bulk answers 200 even when some employees failed; the body carries per-employee results.
func (h *ApprovalHandler) Bulk(c echo.Context) error {
	var req bulkReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.Bulk(c.Request().Context(), approval.BulkInput{
		ManagerID: actor(c).UserID,
		ProjectID: req.ProjectID,
		WeekStart: req.WeekStart,
		Action:    req.Action,
		Reason:    req.Reason,
		Selection: req.Selection,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
