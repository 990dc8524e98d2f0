package http

import (
	"net/http"

	"ops-portal-backend/internal/domain/category"
	"ops-portal-backend/internal/domain/user"
	"ops-portal-backend/internal/usecase/admin"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler is the super admin console.
type AdminHandler struct {
	uc  *admin.Usecase
	log *zap.Logger
}

func NewAdminHandler(uc *admin.Usecase, log *zap.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, log: log}
}

type createUserReq struct {
	UserID     string    `json:"id"`
	Name       string    `json:"name"  validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Role       user.Role `json:"role"  validate:"required"`
	Department string    `json:"department"`
}

type listUsersQuery struct {
	Role user.Role `query:"role"`
}

type listCategoriesQuery struct {
	HighLevelCategory string `query:"high_level_category"`
	ActiveOnly        bool   `query:"active_only"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	out, err := h.uc.ListUsers(c.Request().Context(), q.Role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": out})
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	u, err := h.uc.CreateUser(c.Request().Context(), admin.CreateUserInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var in admin.UpdateUserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in.UserID = c.Param("user_id")
	u, err := h.uc.UpdateUser(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) ListCategories(c echo.Context) error {
	var q listCategoriesQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	out, err := h.uc.ListCategories(c.Request().Context(), category.Filter{
		HighLevelCategory: q.HighLevelCategory,
		ActiveOnly:        q.ActiveOnly,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": out})
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var in admin.CategoryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	v, err := h.uc.CreateCategory(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	var in admin.UpdateCategoryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in.ConfigID = c.Param("config_id")
	v, err := h.uc.UpdateCategory(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *AdminHandler) UpdateApprovers(c echo.Context) error {
	var in admin.UpdateApproversInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in.ConfigID = c.Param("config_id")
	in.Level = c.Param("level")
	v, err := h.uc.UpdateApprovers(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *AdminHandler) FlowLabel(c echo.Context) error {
	label, err := h.uc.FlowLabel(c.Request().Context(), c.Param("config_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"flowLabel": label})
}
