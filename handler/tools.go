package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kudiwise/kudicore/tools"
	"github.com/labstack/echo/v4"
)

const maxToolArgsBytes = 64 << 10

type ToolsResponse struct {
	Tools []tools.Definition `json:"tools"`
}

type ToolHandler struct {
	exec *tools.Executor
}

func NewToolHandler(exec *tools.Executor) *ToolHandler {
	return &ToolHandler{exec}
}

func (h *ToolHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, ToolsResponse{
		Tools: tools.Definitions(),
	})
}

// Execute passes the raw request body to the named tool as its arguments.
func (h *ToolHandler) Execute(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxToolArgsBytes))
	if err != nil {
		return badRequest(c)
	}

	out, err := h.exec.Execute(c.Request().Context(), c.Param("name"), json.RawMessage(raw))
	if errors.Is(err, tools.ErrUnknownTool) {
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: err.Error(),
		})
	}
	if err != nil {
		return calcError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
