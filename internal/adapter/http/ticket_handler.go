package http

import (
	"net/http"

	"ops-portal-backend/internal/usecase/ticket"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TicketHandler struct {
	uc  *ticket.Usecase
	log *zap.Logger
}

func NewTicketHandler(uc *ticket.Usecase, log *zap.Logger) *TicketHandler {
	return &TicketHandler{uc: uc, log: log}
}

type assignReq struct {
	TicketID     string `param:"ticket_id" json:"-" validate:"required"`
	EmployeeID   string `json:"employeeId" validate:"required"`
	EmployeeName string `json:"employeeName"`
	Notes        string `json:"notes" validate:"lte=2000"`
}

func ticketActor(c echo.Context) ticket.Actor {
	a := actor(c)
	return ticket.Actor{ID: a.UserID, Name: a.Name, Role: a.Role}
}

func (h *TicketHandler) ListIT(c echo.Context) error {
	var q ticket.Query
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	out, err := h.uc.ListForAdmin(c.Request().Context(), ticketActor(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tickets": out, "count": len(out)})
}

func (h *TicketHandler) Specialists(c echo.Context) error {
	out, err := h.uc.GetITSpecialists(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"specialists": out})
}

func (h *TicketHandler) History(c echo.Context) error {
	out, err := h.uc.History(c.Request().Context(), c.Param("ticket_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"history": out})
}

func (h *TicketHandler) Assign(c echo.Context) error   { return h.assign(c, false) }
func (h *TicketHandler) Reassign(c echo.Context) error { return h.assign(c, true) }

func (h *TicketHandler) assign(c echo.Context, reassign bool) error {
	var req assignReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	a := actor(c)
	in := ticket.AssignInput{
		TicketID:     req.TicketID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		AssignerID:   a.UserID,
		AssignerName: a.Name,
		Notes:        req.Notes,
	}
	call := h.uc.AssignToITEmployee
	if reassign {
		call = h.uc.ReassignTicket
	}
	t, err := call(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, t)
}
