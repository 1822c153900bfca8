package errors

// ErrorCode identifies the kind of failure.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeMissingSeries        ErrorCode = 101
	ErrCodeNotTrained           ErrorCode = 102
	ErrCodeUnknownStrategy      ErrorCode = 103

	// Domain errors (200-299)
	ErrCodeIndexOutOfRange ErrorCode = 200
	ErrCodeZeroPrice       ErrorCode = 201
	ErrCodeUnboundStrategy ErrorCode = 202
	ErrCodeInvalidPosition ErrorCode = 203

	// Data errors (300-399)
	ErrCodeMalformedData   ErrorCode = 300
	ErrCodeDataUnavailable ErrorCode = 301
)
