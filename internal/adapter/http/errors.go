package http

import (
	"errors"
	"net/http"
	"sort"

	"ops-portal-backend/internal/domain/allocation"
	"ops-portal-backend/internal/domain/category"
	"ops-portal-backend/internal/domain/preferences"
	"ops-portal-backend/internal/domain/ticket"
	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/user"
	"ops-portal-backend/internal/usecase/admin"
	"ops-portal-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errForbidden = errors.New("forbidden")

var (
	notFound = []error{
		tsDomain.ErrNotFound, tsDomain.ErrRowNotFound, ticket.ErrNotFound, user.ErrNotFound,
		category.ErrNotFound, allocation.ErrProjectNotFound, preferences.ErrUnknownView,
	}
	conflicts = []error{
		tsDomain.ErrDayApproved, tsDomain.ErrDayLocked, tsDomain.ErrStaleWeek, tsDomain.ErrWeekApproved,
		tsDomain.ErrRowHasApprovedDays, approval.ErrNoPendingEntries, ticket.ErrAlreadyAssigned,
		ticket.ErrNotAssigned, ticket.ErrSameAssignee, user.ErrDuplicateEmail, category.ErrDuplicate,
	}
	invalid = []error{
		tsDomain.ErrNotMonday, tsDomain.ErrInvalidDate, tsDomain.ErrDayIndex, tsDomain.ErrInvalidDuration,
		tsDomain.ErrEmptyTimesheet, tsDomain.ErrNothingToSubmit, tsDomain.ErrNoAllocation,
		approval.ErrReasonRequired, approval.ErrSelectionRequired, approval.ErrInvalidAction,
		ticket.ErrNotITSpecialist, user.ErrInvalidRole, category.ErrLevel, category.ErrNoActiveLevel,
		admin.ErrNameRequired, admin.ErrEmailRequired, admin.ErrCategoryName,
	}
	forbidden = []error{errForbidden, approval.ErrNotProjectManager, ticket.ErrNotVisible}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError is the only place domain errors become status codes.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var cells tsDomain.CellErrors
	var short *tsDomain.ShortfallError
	switch {
	case errors.As(err, &cells):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid cells", Details: cellDetails(cells)})
	case errors.As(err, &short):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: short.Error(), Details: shortfallDetails(short)})
	case isAny(err, notFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case isAny(err, conflicts):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case isAny(err, invalid):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case isAny(err, forbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "something went wrong"})
}

func cellDetails(cells tsDomain.CellErrors) []FieldError {
	out := make([]FieldError, 0, len(cells))
	for path, msg := range cells {
		out = append(out, FieldError{Field: path, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func shortfallDetails(e *tsDomain.ShortfallError) []FieldError {
	out := make([]FieldError, 0, len(e.Days))
	for _, d := range e.Days {
		total := d.Total
		if total == "" {
			total = "00:00"
		}
		out = append(out, FieldError{Field: d.Day, Message: "total " + total + " is below 08:00"})
	}
	return out
}

// bindAndValidate reports its own 400/422 response; handlers return when it fails.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
