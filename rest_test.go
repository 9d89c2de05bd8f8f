package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type listQuery struct {
	Page int `query:"page" validate:"required,gt=0"`
}

type createInput struct {
	Name  string  `json:"name" validate:"required,min=5"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

func testApp(r Resource) *fiber.App {
	app := fiber.New()
	app.All("/widgets", r.Handler())
	return app
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func errorStrings(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["errors"].([]any)
	require.True(t, ok, "response has no errors array")
	out := make([]string, len(raw))
	for i, e := range raw {
		out[i] = e.(string)
	}
	return out
}

func TestResourceHandler_MethodNotAllowed(t *testing.T) {
	t.Run("unconfigured verb answers 405", func(t *testing.T) {
		app := testApp(Resource{
			Get: HandlerFunc(func(c *Ctx) (any, error) { return fiber.Map{"ok": true}, nil }),
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "Method Not Allowed", decodeJSON(t, resp)["message"])
	})

	t.Run("method without a handler function answers 405", func(t *testing.T) {
		app := testApp(Resource{
			Post: &Method{Body: createInput{}},
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("custom error handler observes the 405 error", func(t *testing.T) {
		var seen error
		app := testApp(Resource{
			Get: HandlerFunc(func(c *Ctx) (any, error) { return nil, nil }),
			OnError: func(c *fiber.Ctx, err error) error {
				seen = err
				return c.Status(http.StatusMethodNotAllowed).JSON(fiber.Map{"custom": true})
			},
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, true, decodeJSON(t, resp)["custom"])

		var appErr *Error
		require.ErrorAs(t, seen, &appErr)
		assert.Equal(t, http.StatusMethodNotAllowed, appErr.StatusCode())
	})
}

func TestResourceHandler_Validation(t *testing.T) {
	t.Run("handler is not invoked when validation fails", func(t *testing.T) {
		invoked := 0
		app := testApp(Resource{
			Post: &Method{
				Body: createInput{},
				Handle: func(c *Ctx) (any, error) {
					invoked++
					return nil, nil
				},
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/widgets",
			strings.NewReader(`{"name":"ab","price":-1,"extra":true}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Zero(t, invoked)

		body := decodeJSON(t, resp)
		assert.Equal(t, "Validation failed", body["message"])
		assert.ElementsMatch(t, []string{
			"body.name must be at least 5 characters",
			"body.price must be greater than 0",
			"body.extra is not allowed",
		}, errorStrings(t, body))
	})

	t.Run("handler receives the coerced query values", func(t *testing.T) {
		app := testApp(Resource{
			Get: &Method{
				Query: listQuery{},
				Handle: func(c *Ctx) (any, error) {
					q, ok := c.Query.(*listQuery)
					if !ok {
						return nil, errors.New("unexpected query type")
					}
					return fiber.Map{"page": q.Page}, nil
				},
			},
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets?page=2", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(2), decodeJSON(t, resp)["page"])
	})

	t.Run("query coercion failure names the field", func(t *testing.T) {
		app := testApp(Resource{
			Get: &Method{
				Query:  listQuery{},
				Handle: func(c *Ctx) (any, error) { return nil, nil },
			},
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets?page=abc", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, []string{"query.page must be an integer"}, errorStrings(t, decodeJSON(t, resp)))
	})

	t.Run("violations from query and body are collected together", func(t *testing.T) {
		app := testApp(Resource{
			Post: &Method{
				Query:  listQuery{},
				Body:   createInput{},
				Handle: func(c *Ctx) (any, error) { return nil, nil },
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/widgets?page=-1",
			strings.NewReader(`{"name":"gizmo","price":-1}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.ElementsMatch(t, []string{
			"query.page must be greater than 0",
			"body.price must be greater than 0",
		}, errorStrings(t, decodeJSON(t, resp)))
	})
}

func TestResourceHandler_Responses(t *testing.T) {
	t.Run("nil result on POST answers 201 with an empty body", func(t *testing.T) {
		app := testApp(Resource{
			Post: HandlerFunc(func(c *Ctx) (any, error) { return nil, nil }),
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("nil result on other verbs answers 204 with an empty body", func(t *testing.T) {
		app := testApp(Resource{
			Delete: HandlerFunc(func(c *Ctx) (any, error) { return nil, nil }),
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("non-nil result answers 200 with the serialized value", func(t *testing.T) {
		app := testApp(Resource{
			Get: HandlerFunc(func(c *Ctx) (any, error) {
				return fiber.Map{"name": "gizmo"}, nil
			}),
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "gizmo", decodeJSON(t, resp)["name"])
	})
}

func TestResourceHandler_Errors(t *testing.T) {
	t.Run("application error is surfaced with its status and message", func(t *testing.T) {
		app := testApp(Resource{
			Get: HandlerFunc(func(c *Ctx) (any, error) {
				return nil, NewError(http.StatusForbidden, "read-only account")
			}),
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "read-only account", decodeJSON(t, resp)["message"])
	})

	t.Run("unexpected error answers a generic 500 without detail", func(t *testing.T) {
		app := testApp(Resource{
			Logger: zap.NewNop(),
			Get: HandlerFunc(func(c *Ctx) (any, error) {
				return nil, errors.New("dial tcp 10.0.0.7:5432: connection refused")
			}),
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "10.0.0.7")

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Internal Server Error", body["message"])
	})

	t.Run("method error handler takes precedence over the resource handler", func(t *testing.T) {
		app := testApp(Resource{
			OnError: func(c *fiber.Ctx, err error) error {
				return c.Status(http.StatusBadGateway).JSON(fiber.Map{"source": "resource"})
			},
			Get: &Method{
				Handle: func(c *Ctx) (any, error) { return nil, errors.New("boom") },
				OnError: func(c *fiber.Ctx, err error) error {
					return c.Status(http.StatusTeapot).JSON(fiber.Map{"source": "method"})
				},
			},
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
		assert.Equal(t, "method", decodeJSON(t, resp)["source"])
	})
}

func TestResourceHandler_Hooks(t *testing.T) {
	t.Run("hook error skips validation and handler", func(t *testing.T) {
		invoked := 0
		app := testApp(Resource{
			Post: &Method{
				Body:   createInput{},
				Before: func(c *fiber.Ctx) error { return Unauthorized() },
				Handle: func(c *Ctx) (any, error) {
					invoked++
					return nil, nil
				},
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized", decodeJSON(t, resp)["message"])
		assert.Zero(t, invoked)
	})

	t.Run("method hook overrides the resource hook", func(t *testing.T) {
		var ran []string
		app := testApp(Resource{
			Before: func(c *fiber.Ctx) error {
				ran = append(ran, "resource")
				return nil
			},
			Get: &Method{
				Before: func(c *fiber.Ctx) error {
					ran = append(ran, "method")
					return nil
				},
				Handle: func(c *Ctx) (any, error) { return nil, nil },
			},
		})

		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets", nil))
		require.NoError(t, err)

		assert.Equal(t, []string{"method"}, ran)
	})

	t.Run("resource hook runs when the method has none", func(t *testing.T) {
		ran := false
		app := testApp(Resource{
			Before: func(c *fiber.Ctx) error {
				ran = true
				return nil
			},
			Get: HandlerFunc(func(c *Ctx) (any, error) { return nil, nil }),
		})

		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/widgets", nil))
		require.NoError(t, err)

		assert.True(t, ran)
	})
}
