package errors

import "fmt"

// ValidationError carries the context a rejected input needs: which
// field, which rule it broke, what was provided, and what would have
// been accepted. Used for malformed RESP frames and invalid Store
// configuration, where the field/rule pair doubles as the detail a
// client needs to correct its request.
type ValidationError struct {
	*baseError
	field    string
	rule     string
	provided any
	expected any
}

// NewValidationError creates a validation-specific error.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the
// ValidationError type through the fluent chain.
func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

// WithCode sets the error code while preserving the ValidationError type.
func (ve *ValidationError) WithCode(code ErrorCode) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

// WithDetail adds contextual information while preserving the
// ValidationError type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField sets which field failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule specifies which validation rule was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures what value was provided that failed validation.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// WithExpected describes what would have been a valid value.
func (ve *ValidationError) WithExpected(value any) *ValidationError {
	ve.expected = value
	return ve
}

// Field returns the field name that failed validation.
func (ve *ValidationError) Field() string {
	return ve.field
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value that was provided and failed validation.
func (ve *ValidationError) Provided() any {
	return ve.provided
}

// Expected returns what would have been a valid value.
func (ve *ValidationError) Expected() any {
	return ve.expected
}

// Error renders the base message together with whichever field/rule/
// provided context was recorded, so a client sees the specifics without
// having to call the getters itself.
func (ve *ValidationError) Error() string {
	msg := ve.baseError.Error()
	if ve.field == "" && ve.rule == "" && ve.provided == nil {
		return msg
	}

	switch {
	case ve.field != "" && ve.rule != "":
		return fmt.Sprintf("%s (field=%s, rule=%s, provided=%v)", msg, ve.field, ve.rule, ve.provided)
	case ve.field != "":
		return fmt.Sprintf("%s (field=%s, provided=%v)", msg, ve.field, ve.provided)
	default:
		return fmt.Sprintf("%s (rule=%s, provided=%v)", msg, ve.rule, ve.provided)
	}
}

// NewConfigurationValidationError creates an error for invalid configuration objects.
func NewConfigurationValidationError(field string, issue string) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidInput,
		"Configuration validation failed",
	).WithField(field).
		WithRule("configuration_integrity").
		WithDetail("validationIssue", issue)
}
