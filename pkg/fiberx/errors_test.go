package fiberx

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, debug bool, handlerErr error) (int, map[string]any) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(debug)})
	app.Get("/", func(c *fiber.Ctx) error { return handlerErr })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-1")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler(t *testing.T) {
	t.Run("errx error keeps code and details", func(t *testing.T) {
		reg := errx.NewRegistry("TEST")
		code := reg.Register("BAD_STATE", errx.TypeBusiness, 409, "bad state")

		status, body := call(t, false, reg.New(code).WithDetail("status", "COMPLETED"))
		assert.Equal(t, 409, status)
		assert.Equal(t, "TEST_BAD_STATE", body["code"])
		assert.Equal(t, "BUSINESS", body["type"])
		assert.Equal(t, "req-1", body["request_id"])
		assert.Equal(t, map[string]any{"status": "COMPLETED"}, body["details"])
	})

	t.Run("cause only in debug", func(t *testing.T) {
		wrapped := errx.Wrap(errors.New("pq: boom"), "failed", errx.TypeInternal)

		_, body := call(t, false, wrapped)
		assert.NotContains(t, body, "underlying_error")

		status, body := call(t, true, wrapped)
		assert.Equal(t, 500, status)
		assert.Equal(t, "pq: boom", body["underlying_error"])
	})

	t.Run("fiber error", func(t *testing.T) {
		status, body := call(t, false, fiber.ErrNotFound)
		assert.Equal(t, 404, status)
		assert.Equal(t, "FIBER_ERROR", body["code"])
	})

	t.Run("plain error", func(t *testing.T) {
		status, body := call(t, false, errors.New("oops"))
		assert.Equal(t, 500, status)
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
	})
}
