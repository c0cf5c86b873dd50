package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

func writeError(c *echo.Context, status int, errType, msg, code string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{
			Message: msg,
			Type:    errType,
			Code:    code,
		},
	})
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "")
}

func writeServiceError(c *echo.Context, err error) error {
	status, errType, code := errorStatus(err)
	return writeError(c, status, errType, err.Error(), code)
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, newInvalidRequest("invalid_json", fmt.Sprintf("invalid JSON body: %v", err))
	}
	return out, nil
}

func newProductID() string {
	return "mm_" + uuid.NewString()
}
