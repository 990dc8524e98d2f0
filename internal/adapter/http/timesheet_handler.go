package http

import (
	"net/http"
	"strconv"

	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/usecase/timesheet"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TimesheetHandler struct {
	uc  *timesheet.Usecase
	log *zap.Logger
}

func NewTimesheetHandler(uc *timesheet.Usecase, log *zap.Logger) *TimesheetHandler {
	return &TimesheetHandler{uc: uc, log: log}
}

// WeekPath is shared by every /timesheets/:employee_id/weeks/:week_start route.
// The json "-" tags keep the body from overwriting path values.
type WeekPath struct {
	EmployeeID string `param:"employee_id" json:"-" validate:"required"`
	WeekStart  string `param:"week_start"  json:"-" validate:"weekstart"`
}

type saveWeekReq struct {
	WeekPath
	Rows            []tsDomain.EntryRow `json:"rows"`
	ExpectedVersion *int                `json:"expectedVersion"`
}

type editCellReq struct {
	WeekPath
	ProjectID       string  `json:"projectId"    validate:"required"`
	CategoryID      string  `json:"categoryId"   validate:"required"`
	CategoryName    string  `json:"categoryName"`
	Type            string  `json:"type"`
	BillableGroup   string  `json:"billableGroup"`
	DayIndex        int     `json:"dayIndex"     validate:"gte=0,lte=6"`
	Hours           string  `json:"hours"        validate:"hhmm"`
	Comment         *string `json:"comment"`
	ExpectedVersion *int    `json:"expectedVersion"`
}

type copyForwardReq struct {
	WeekPath
	ProjectID       string `json:"projectId" validate:"required"`
	CategoryID      string `json:"categoryId"`
	SourceDay       int    `json:"sourceDay" validate:"gte=0,lte=6"`
	ExpectedVersion *int   `json:"expectedVersion"`
}

type deleteRowReq struct {
	WeekPath
	ProjectID  string `param:"project_id" json:"-" validate:"required"`
	CategoryID string `param:"uda_id" json:"-" validate:"required"`
}

func (h *TimesheetHandler) GetWeek(c echo.Context) error {
	var req WeekPath
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := ownEmployee(c, req.EmployeeID); err != nil {
		return writeError(c, h.log, err)
	}
	view, err := h.uc.GetTimesheetForWeek(c.Request().Context(), req.EmployeeID, req.WeekStart)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if view == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TimesheetHandler) saveInput(c echo.Context) (*timesheet.SaveInput, bool, error) {
	var req saveWeekReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return nil, false, err
	}
	if err := ownEmployee(c, req.EmployeeID); err != nil {
		return nil, false, writeError(c, h.log, err)
	}
	return &timesheet.SaveInput{
		EmployeeID:      req.EmployeeID,
		EmployeeName:    actor(c).Name,
		WeekStart:       req.WeekStart,
		Rows:            req.Rows,
		ExpectedVersion: req.ExpectedVersion,
	}, true, nil
}

func (h *TimesheetHandler) SaveDraft(c echo.Context) error {
	in, ok, err := h.saveInput(c)
	if !ok {
		return err
	}
	view, err := h.uc.SaveDraft(c.Request().Context(), *in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TimesheetHandler) Submit(c echo.Context) error {
	in, ok, err := h.saveInput(c)
	if !ok {
		return err
	}
	view, err := h.uc.Submit(c.Request().Context(), *in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TimesheetHandler) EditCell(c echo.Context) error {
	var req editCellReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := ownEmployee(c, req.EmployeeID); err != nil {
		return writeError(c, h.log, err)
	}
	view, err := h.uc.EditCell(c.Request().Context(), timesheet.EditCellInput{
		EmployeeID:      req.EmployeeID,
		EmployeeName:    actor(c).Name,
		WeekStart:       req.WeekStart,
		ProjectID:       req.ProjectID,
		CategoryID:      req.CategoryID,
		CategoryName:    req.CategoryName,
		Type:            req.Type,
		BillableGroup:   req.BillableGroup,
		DayIndex:        req.DayIndex,
		Hours:           req.Hours,
		Comment:         req.Comment,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TimesheetHandler) CopyForward(c echo.Context) error {
	var req copyForwardReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := ownEmployee(c, req.EmployeeID); err != nil {
		return writeError(c, h.log, err)
	}
	view, err := h.uc.CopyForward(c.Request().Context(), timesheet.CopyForwardInput{
		EmployeeID:      req.EmployeeID,
		WeekStart:       req.WeekStart,
		ProjectID:       req.ProjectID,
		CategoryID:      req.CategoryID,
		SourceDay:       req.SourceDay,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TimesheetHandler) DeleteRow(c echo.Context) error {
	var req deleteRowReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := ownEmployee(c, req.EmployeeID); err != nil {
		return writeError(c, h.log, err)
	}
	in := timesheet.DeleteRowInput{
		EmployeeID: req.EmployeeID,
		WeekStart:  req.WeekStart,
		ProjectID:  req.ProjectID,
		CategoryID: req.CategoryID,
	}
	if raw := c.QueryParam("expected_version"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expected_version must be an integer"})
		}
		in.ExpectedVersion = &v
	}
	res, err := h.uc.DeleteRow(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
