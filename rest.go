package rest

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/appgeist/rest/schema"
)

// Ctx carries the input of a single dispatched request. Query and Body hold
// pointers to the method's schema structs, populated with the decoded and
// validated input; they are nil when the method declares no schema.
type Ctx struct {
	Query   any
	Body    any
	Request *fiber.Ctx
}

// HandlerFunc is the bare-function form of a method: it receives the
// validated input and returns the response value. Returning (nil, nil)
// produces an empty 201/204 response; any other value is serialized as a
// 200 JSON response.
type HandlerFunc func(c *Ctx) (any, error)

// Hook runs before validation. Returning an error aborts the request and
// routes the error through the method's error handler.
type Hook func(c *fiber.Ctx) error

// ErrorHandler translates an error raised during dispatch into a response.
// It mirrors fiber.Config.ErrorHandler and must write exactly one response.
type ErrorHandler func(c *fiber.Ctx, err error) error

// Method is the configuration-record form of a verb handler. Query and Body
// are schema prototypes (struct values or pointers, see package schema);
// Before and OnError override the resource-wide hook and error handler for
// this verb only.
type Method struct {
	Query   any
	Body    any
	Handle  HandlerFunc
	Before  Hook
	OnError ErrorHandler
}

// MethodSpec is satisfied by both forms a verb handler can take: a bare
// HandlerFunc or a full *Method.
type MethodSpec interface {
	method() *Method
}

func (h HandlerFunc) method() *Method { return &Method{Handle: h} }

func (m *Method) method() *Method { return m }

// Resource declares the handlers of one route, one per verb. Before and
// OnError apply to every verb unless the verb's Method overrides them.
// Errors reach OnError in this order of preference: the verb's OnError, the
// resource's OnError, then DefaultErrorHandler over Logger (zap.L() when
// Logger is nil).
//
// A Resource is read-only after Handler is called and safe for concurrent
// requests.
type Resource struct {
	Get    MethodSpec
	Post   MethodSpec
	Put    MethodSpec
	Patch  MethodSpec
	Delete MethodSpec

	Before  Hook
	OnError ErrorHandler
	Logger  *zap.Logger
}

// Handler compiles the resource into a fiber.Handler. Register it with
// app.All so that verbs without a configured method reach the 405 path
// instead of fiber's router-level response.
func (r Resource) Handler() fiber.Handler {
	methods := make(map[string]*Method, 5)
	for verb, spec := range map[string]MethodSpec{
		fiber.MethodGet:    r.Get,
		fiber.MethodPost:   r.Post,
		fiber.MethodPut:    r.Put,
		fiber.MethodPatch:  r.Patch,
		fiber.MethodDelete: r.Delete,
	} {
		if spec != nil {
			methods[verb] = spec.method()
		}
	}

	fallback := r.OnError
	if fallback == nil {
		logger := r.Logger
		if logger == nil {
			logger = zap.L()
		}
		fallback = DefaultErrorHandler(logger)
	}

	return func(c *fiber.Ctx) error {
		verb := strings.ToUpper(c.Method())
		m := methods[verb]

		fail := fallback
		if m != nil && m.OnError != nil {
			fail = m.OnError
		}

		if m == nil || m.Handle == nil {
			return fail(c, NewError(fiber.StatusMethodNotAllowed))
		}

		before := r.Before
		if m.Before != nil {
			before = m.Before
		}
		if before != nil {
			if err := before(c); err != nil {
				return fail(c, err)
			}
		}

		in := &Ctx{Request: c}
		if m.Query != nil || m.Body != nil {
			query, body, err := schema.Bind(c, m.Query, m.Body)
			if err != nil {
				return fail(c, err)
			}
			in.Query, in.Body = query, body
		}

		result, err := m.Handle(in)
		if err != nil {
			return fail(c, err)
		}

		if result == nil {
			status := fiber.StatusNoContent
			if verb == fiber.MethodPost {
				status = fiber.StatusCreated
			}
			return c.Status(status).Send(nil)
		}
		return c.Status(fiber.StatusOK).JSON(result)
	}
}
