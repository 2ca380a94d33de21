package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like reading or
	// writing segment files, network operations when communicating with remote
	// systems, and device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in persistent storage systems. These codes
// represent problems that are specific to the storage layer of your key-value
// store, particularly focusing on segment file management and data persistence.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has been
	// damaged or is in an inconsistent state.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the header
	// portion of a segment file. Headers contain critical metadata about the
	// segment's structure, so header read failures prevent access to the
	// entire segment and all data it contains.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the actual data
	// content from segment files after successfully reading the header. This
	// represents a more localized failure compared to header problems, as the
	// segment structure is intact but specific data regions are inaccessible.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that the storage system's attempt to
	// recover from a previous failure was unsuccessful. This represents a
	// compound failure where both the original problem and the recovery
	// mechanism have failed, creating a more serious operational situation.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes cover failures that occur while resolving a key
// through the in-memory keydir, as distinct from failures reading the bytes
// the keydir points at.
const (
	// ErrorCodeIndexKeyNotFound indicates that a lookup found no keydir entry
	// for the requested key.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexInvalidSegmentID indicates a keydir entry pointed at a
	// segment id that the store has no open handle for. This should never
	// happen outside of a bug, since segments are only dropped from the
	// registry after every keydir entry referencing them has been rewritten.
	ErrorCodeIndexInvalidSegmentID ErrorCode = "INDEX_INVALID_SEGMENT_ID"

	// ErrorCodeIndexTimestampExtraction indicates a segment filename could
	// not be parsed for its embedded id.
	ErrorCodeIndexTimestampExtraction ErrorCode = "INDEX_TIMESTAMP_EXTRACTION_FAILED"

	// ErrorCodeIndexCorrupted indicates the in-memory keydir itself reached
	// an inconsistent state, as opposed to the on-disk data it points to.
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"
)

// Key-value domain error codes, carried by KVError (and, for the RESP
// server's parse/protocol codes, by ValidationError).
const (
	// ErrorCodeKeyNotFound indicates a Remove of an absent key. Get reports
	// the same condition by returning a nil value with no error, since a
	// miss is an expected outcome of a lookup rather than a failure.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrorCodeSizeLimit indicates a key or value exceeded the configured
	// maximum size. The caller must shrink the input; the store's state is
	// left unchanged.
	ErrorCodeSizeLimit ErrorCode = "SIZE_LIMIT_EXCEEDED"

	// ErrorCodeFileNotWritable indicates an append was attempted against a
	// sealed data file. Reaching this code is always a bug in the
	// engine, never a condition a caller can trigger directly.
	ErrorCodeFileNotWritable ErrorCode = "FILE_NOT_WRITABLE"

	// ErrorCodeCodec indicates a record or hint could not be decoded at a
	// position the caller asked for: a DataFile.Read at a keydir offset, or
	// a hint file being replayed. A decode failure met while scanning a
	// data file sequentially is reported as ErrorCodeSegmentCorrupted
	// instead.
	ErrorCodeCodec ErrorCode = "CODEC_ERROR"

	// ErrorCodeParse is returned by the RESP server when a client sends a
	// frame that cannot be tokenized as RESP at all.
	ErrorCodeParse ErrorCode = "PARSE_ERROR"

	// ErrorCodeProtocol is returned by the RESP server when a frame parses
	// but has the wrong shape for a command (e.g. a bulk string where an
	// array of arguments was expected).
	ErrorCodeProtocol ErrorCode = "PROTOCOL_ERROR"
)
