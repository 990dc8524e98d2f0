package http

import (
	"net/http"

	"ops-portal-backend/internal/domain/notification"
	"ops-portal-backend/internal/domain/preferences"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PreferencesHandler serves the caller's saved view state and notification inbox.
type PreferencesHandler struct {
	store preferences.Store
	inbox notification.Repository
	log   *zap.Logger
}

func NewPreferencesHandler(store preferences.Store, inbox notification.Repository, log *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{store: store, inbox: inbox, log: log}
}

const defaultInboxLimit = 50

type inboxQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=200"`
}

func (h *PreferencesHandler) Get(c echo.Context) error {
	p, err := h.store.Load(c.Request().Context(), actor(c).UserID, c.Param("view"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Put replaces the whole view state; the path wins over any view in the body.
func (h *PreferencesHandler) Put(c echo.Context) error {
	var p preferences.ViewPreferences
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	p.View = c.Param("view")
	if err := h.store.Save(c.Request().Context(), actor(c).UserID, p); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p.Normalize())
}

func (h *PreferencesHandler) Notifications(c echo.Context) error {
	var q inboxQuery
	if ok, err := bindAndValidate(c, &q); !ok {
		return err
	}
	if q.Limit == 0 {
		q.Limit = defaultInboxLimit
	}
	out, err := h.inbox.ListForUser(c.Request().Context(), actor(c).UserID, q.Limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		out = []notification.Notification{}
	}
	return c.JSON(http.StatusOK, map[string]any{"notifications": out})
}
