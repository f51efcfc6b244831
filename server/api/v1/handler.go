package v1

import (
	"context"
	"net/http"

	"github.com/erikmagkekse/nas-console/console"

	"github.com/labstack/echo/v5"
)

type Handler struct {
	Session *console.Session
}

// runContext detaches slot runs from the inbound request: once dispatched, a backend
// call is never cancelled, even if the browser goes away.
func runContext(c *echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

// --- Menu ---

func (h *Handler) Menu(c *echo.Context) error {
	cat := h.Session.Catalog()
	return c.JSON(http.StatusOK, MenuResponse{Groups: cat.Groups(), Total: cat.Len()})
}

// --- Session ---

func (h *Handler) GetSession(c *echo.Context) error {
	return c.JSON(http.StatusOK, h.Session.View())
}

func (h *Handler) Select(c *echo.Context) error {
	var req SelectRequest
	if err := c.Bind(&req); err != nil || req.Key == "" {
		return badRequest(c, "key is required")
	}

	out, err := h.Session.Open(runContext(c), req.Key)
	if err != nil {
		return ConsoleError(c, err)
	}

	recordOutcome(c, out)
	return c.JSON(http.StatusOK, RunResponse{Outcome: out, View: h.Session.View()})
}

func (h *Handler) EditDraft(c *echo.Context) error {
	var req DraftRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.Session.PatchDraft(req.Method, req.Endpoint, req.Body); err != nil {
		return ConsoleError(c, err)
	}

	return c.JSON(http.StatusOK, h.Session.View())
}

func (h *Handler) RunDraft(c *echo.Context) error {
	var req DraftRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if !req.empty() {
		if err := h.Session.PatchDraft(req.Method, req.Endpoint, req.Body); err != nil {
			return ConsoleError(c, err)
		}
	}

	out, err := h.Session.RunPrimary(runContext(c))
	if err != nil {
		return ConsoleError(c, err)
	}

	recordOutcome(c, out)
	return c.JSON(http.StatusOK, RunResponse{Outcome: out, View: h.Session.View()})
}

// --- Actions ---

func (h *Handler) EditAction(c *echo.Context) error {
	i, ok := actionIndex(c)
	if !ok {
		return badRequest(c, "invalid action index")
	}

	var req ActionRequest
	if err := c.Bind(&req); err != nil || req.Body == nil {
		return badRequest(c, "body is required")
	}

	if err := h.Session.EditAction(i, *req.Body); err != nil {
		return ConsoleError(c, err)
	}

	return c.JSON(http.StatusOK, h.Session.View())
}

func (h *Handler) RunAction(c *echo.Context) error {
	i, ok := actionIndex(c)
	if !ok {
		return badRequest(c, "invalid action index")
	}

	var req ActionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.Body != nil {
		if err := h.Session.EditAction(i, *req.Body); err != nil {
			return ConsoleError(c, err)
		}
	}

	out, err := h.Session.RunAction(runContext(c), i)
	if err != nil {
		return ConsoleError(c, err)
	}

	recordOutcome(c, out)
	return c.JSON(http.StatusOK, RunResponse{Outcome: out, View: h.Session.View()})
}
