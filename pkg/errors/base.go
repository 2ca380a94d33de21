package errors

import "sort"

// baseError is the shared foundation every TinKV error type embeds: a
// message, an ErrorCode for programmatic handling, an optional wrapped
// cause, and a details map for structured context a caller didn't have a
// named field for.
type baseError struct {
	cause   error
	message string
	code    ErrorCode
	details map[string]any
}

// NewBaseError creates a baseError wrapping err (which may be nil) under
// code with message msg.
func NewBaseError(err error, code ErrorCode, msg string) *baseError {
	return &baseError{cause: err, code: code, message: msg}
}

// WithMessage replaces the error message.
func (be *baseError) WithMessage(msg string) *baseError {
	be.message = msg
	return be
}

// WithCode replaces the error code.
func (be *baseError) WithCode(code ErrorCode) *baseError {
	be.code = code
	return be
}

// WithDetail attaches a piece of structured context, lazily allocating
// the details map on first use.
func (be *baseError) WithDetail(key string, value any) *baseError {
	if be.details == nil {
		be.details = make(map[string]any)
	}
	be.details[key] = value
	return be
}

// Error renders the message, appending ": <cause>" when one is present,
// matching the convention fmt.Errorf("%w") callers expect when they print
// an error without unwrapping it first.
func (b *baseError) Error() string {
	if b.cause != nil {
		return b.message + ": " + b.cause.Error()
	}
	return b.message
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (b *baseError) Unwrap() error {
	return b.cause
}

// Code returns the error code.
func (b *baseError) Code() ErrorCode {
	return b.code
}

// Details returns the attached structured context, or nil if none was
// ever set. The returned map is the internal one; callers must not
// mutate it.
func (b *baseError) Details() map[string]any {
	return b.details
}

// LogFields flattens Details into an alternating key/value slice suitable
// for a *zap.SugaredLogger's Errorw/Warnw, sorted by key so log output is
// stable across runs for the same error.
func (b *baseError) LogFields() []any {
	if len(b.details) == 0 {
		return nil
	}
	keys := make([]string, 0, len(b.details))
	for k := range b.details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		fields = append(fields, k, b.details[k])
	}
	return fields
}
