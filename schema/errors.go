package schema

import "strings"

// FieldError describes a single violation for one input field.
type FieldError struct {
	// Field is the full path of the field, e.g. "body.price".
	Field string `json:"field"`

	// Message is the human-readable violation, e.g. "must be an integer".
	Message string `json:"message"`
}

// String renders the violation as a single sentence.
func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

// Errors is the ordered collection of violations found in one request.
// It implements the error interface so it can travel through ordinary
// error returns up to the dispatcher.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	return strings.Join(e.Strings(), "; ")
}

// Strings flattens the violations into client-facing sentences.
func (e Errors) Strings() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.String()
	}
	return out
}
