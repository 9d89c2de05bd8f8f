// Package schema decodes and validates request input for dispatched
// handlers.
//
// A schema is an ordinary struct: `query` and `json` tags name the incoming
// fields, go-playground/validator tags declare the rules.
//
//	type ListQuery struct {
//		Page int `query:"page" validate:"required,gt=0"`
//	}
//
// Bind decodes the query string and JSON body into fresh instances of the
// schema structs, coercing string parameters to their typed fields, and then
// validates them. Decoding and validation never stop at the first problem:
// every violation across both query and body is collected into a single
// Errors value with full field paths ("query.page", "body.price"), so a
// client sees everything wrong with the request at once.
//
// Unknown body fields are rejected.
package schema
