package errors

import stdErrors "errors"

// KVError carries the context for the key-value-domain failures the Store
// contract promises: a missing key on Remove, an oversized key or value, or
// a write attempted against a file the store knows is sealed. These are
// distinct from StorageError because they originate from input validation
// or keydir state rather than from the filesystem.
type KVError struct {
	*baseError
	key       []byte
	limit     uint64
	size      uint64
	operation string
}

// NewKVError creates a new key-value-domain error with the given context.
func NewKVError(err error, code ErrorCode, msg string) *KVError {
	return &KVError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the KVError type.
func (ke *KVError) WithMessage(msg string) *KVError {
	ke.baseError.WithMessage(msg)
	return ke
}

// WithKey records which key the failing operation was processing.
func (ke *KVError) WithKey(key []byte) *KVError {
	ke.key = key
	return ke
}

// WithLimit records the configured limit that was violated.
func (ke *KVError) WithLimit(limit uint64) *KVError {
	ke.limit = limit
	return ke
}

// WithSize records the actual size that exceeded the limit.
func (ke *KVError) WithSize(size uint64) *KVError {
	ke.size = size
	return ke
}

// WithOperation records which Store method produced the error.
func (ke *KVError) WithOperation(operation string) *KVError {
	ke.operation = operation
	return ke
}

// Key returns the key the failing operation was processing.
func (ke *KVError) Key() []byte { return ke.key }

// Limit returns the configured limit that was violated, if any.
func (ke *KVError) Limit() uint64 { return ke.limit }

// Size returns the actual size that violated the limit, if any.
func (ke *KVError) Size() uint64 { return ke.size }

// Operation returns the name of the Store method that failed.
func (ke *KVError) Operation() string { return ke.operation }

// NewKeyNotFoundError builds the error Remove returns for an absent key.
func NewKeyNotFoundError(key []byte) *KVError {
	return NewKVError(nil, ErrorCodeKeyNotFound, "key not found").
		WithKey(key).
		WithOperation("Remove")
}

// NewKeySizeLimitError builds the error Set returns when a key exceeds
// MaxKeySize.
func NewKeySizeLimitError(key []byte, size, limit uint64) *KVError {
	return NewKVError(nil, ErrorCodeSizeLimit, "key exceeds configured maximum size").
		WithKey(key).
		WithSize(size).
		WithLimit(limit).
		WithOperation("Set")
}

// NewValueSizeLimitError builds the error Set returns when a value exceeds
// MaxValueSize.
func NewValueSizeLimitError(key []byte, size, limit uint64) *KVError {
	return NewKVError(nil, ErrorCodeSizeLimit, "value exceeds configured maximum size").
		WithKey(key).
		WithSize(size).
		WithLimit(limit).
		WithOperation("Set")
}

// NewFileNotWritableError builds the error an append against a sealed file
// returns. Reaching this always indicates an engine bug: callers never
// choose which file an append targets.
func NewFileNotWritableError(path string) *KVError {
	return NewKVError(nil, ErrorCodeFileNotWritable, "file is not writable").
		WithOperation("Append").
		WithMessage("file '" + path + "' is not writable")
}

// IsKeyNotFound reports whether err is (or wraps) a key-not-found KVError.
func IsKeyNotFound(err error) bool {
	ke, ok := AsKVError(err)
	return ok && ke.Code() == ErrorCodeKeyNotFound
}

// AsKVError extracts a KVError from an error chain.
func AsKVError(err error) (*KVError, bool) {
	var ke *KVError
	if stdErrors.As(err, &ke) {
		return ke, true
	}
	return nil, false
}
