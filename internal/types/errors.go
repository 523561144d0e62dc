package types

import "fmt"

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Pipeline code MUST use these constants instead of
// hardcoded strings so callers can branch with errors.As on the code.
const (
	// Decode: malformed inbound queue message. The message is rejected and
	// never processed; redelivery is the queue transport's decision.
	ErrCodeDecodeMalformed   ErrorCode = "decode_malformed_message"
	ErrCodeDecodeInvalidDate ErrorCode = "decode_invalid_date"

	// Adapter: raw analysis result violates the adapter's input contract.
	// Fail-fast; a silent default would mask upstream corruption as zero.
	ErrCodeAdapterMalformedResult ErrorCode = "adapter_malformed_result"

	// Enrichment: hard failures abort the unit of work, soft failures
	// degrade the payload and continue.
	ErrCodeEnrichmentDownload ErrorCode = "enrichment_download_failed"
	ErrCodeEnrichmentGeostore ErrorCode = "enrichment_geostore_missing"

	// Delivery: the email enqueue is load-bearing and propagates.
	ErrCodeDeliveryEmailEnqueue ErrorCode = "delivery_email_enqueue_failed"

	// Upstream transport failures surfaced by the external clients.
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"

	// Validation and internal fallbacks.
	ErrCodeValidationMissingField ErrorCode = "validation_missing_required_field"
	ErrCodeInternalUnexpected     ErrorCode = "internal_unexpected_error"
)

// AppError is the standard application error type used throughout the
// pipeline. All domain errors should be expressed as AppError to enable
// consistent error formatting and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error. This is the standard constructor for domain
// errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
