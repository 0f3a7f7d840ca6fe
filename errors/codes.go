package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Discovery errors
const (
	// ErrCodeDiscoveryTransport indicates the discovery document could not be fetched.
	ErrCodeDiscoveryTransport ErrorCode = "DISCOVERY_TRANSPORT"
	// ErrCodeDiscoveryParse indicates the discovery document body was not a JSON array of strings.
	ErrCodeDiscoveryParse ErrorCode = "DISCOVERY_PARSE"
	// ErrCodeEmptyDomainList indicates discovery succeeded but listed no domains.
	ErrCodeEmptyDomainList ErrorCode = "EMPTY_DOMAIN_LIST"
)

// Registry errors
const (
	// ErrCodeProviderNotFound indicates no factory is registered for a key.
	ErrCodeProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"
)

// Connection/Availability errors
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
)

// Request errors
const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	ErrCodeRequestFailed  ErrorCode = "REQUEST_FAILED"
)

// Internal errors
const (
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Nothing in this module retries automatically; the flag only tells the
// caller whether trying again could succeed.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeDiscoveryTransport: true,
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeRequestFailed:      true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
