// Package rest dispatches HTTP requests to per-verb handlers on a Fiber
// route, validating query and body input before the handler runs and
// translating handler errors into JSON responses.
//
// A Resource declares one handler per verb, either as a bare HandlerFunc or
// as a *Method carrying schemas and hooks:
//
//	products := rest.Resource{
//		Get: rest.HandlerFunc(func(c *rest.Ctx) (any, error) {
//			q := c.Query.(*ListQuery)
//			return store.List(c.Request.Context(), q.Page)
//		}),
//		Post: &rest.Method{
//			Body:   CreateInput{},
//			Before: requireUser,
//			Handle: func(c *rest.Ctx) (any, error) {
//				return nil, store.Create(c.Request.Context(), c.Body.(*CreateInput))
//			},
//		},
//	}
//	app.All("/products", products.Handler())
//
// Verbs without a handler answer 405. Validation failures answer 400 with
// per-field errors. A handler returning (nil, nil) answers 201 on POST and
// 204 otherwise; any other value is serialized as a 200 JSON response.
//
// # Errors
//
// Handlers and hooks signal a specific HTTP outcome by returning *Error:
//
//	return nil, rest.NewError(fiber.StatusForbidden, "read-only account")
//
// Any other error is reported to the logger and Sentry and answered with a
// generic 500, never exposing internal detail to the client. Both the route
// and individual methods may override this translation with an ErrorHandler.
package rest
