package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/dzx/pkg/dzx"
)

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeFailure(c *echo.Context, err error) error {
	status, errType := classify(err)
	return writeError(c, status, errType, err.Error())
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
		},
	})
}

func writeBytes(c *echo.Context, status int, contentType string, data []byte) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, contentType)
	w.WriteHeader(status)
	_, err := w.Write(data)
	return err
}

var errTooLarge = errors.New("request body too large")

// readBody reads at most limit bytes of the request body.
func readBody(c *echo.Context, limit int64) ([]byte, error) {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, limit)
	data, err := io.ReadAll(body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errTooLarge, limit)
		}
		return nil, err
	}
	return data, nil
}

// recordQuery reads the type and layer query parameters. A missing layer
// yields hasLayer=false.
func recordQuery(c *echo.Context) (typ dzx.Type, layer dzx.Layer, hasLayer bool, err error) {
	typ = dzx.Type(c.QueryParam("type"))
	if typ == "" {
		return "", dzx.NoLayer, false, newInvalidRequest("type query parameter is required")
	}
	raw := c.QueryParam("layer")
	if raw == "" {
		return typ, dzx.NoLayer, false, nil
	}
	layer, err = dzx.ParseLayer(raw)
	if err != nil {
		return "", dzx.NoLayer, false, err
	}
	return typ, layer, true, nil
}
