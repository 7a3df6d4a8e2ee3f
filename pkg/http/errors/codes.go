package errors

// Error codes for standardized error responses
const (
	// Client identity errors
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeInvalidToken   = "invalid_token"
	ErrCodeClientRequired = "client_token_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound = "not_found"

	// Gameplay errors
	ErrCodeIllegalTransition = "illegal_transition"
	ErrCodeQuestionNotFound  = "question_not_found"
	ErrCodeNoQuestions       = "no_questions_available"

	// Content errors
	ErrCodeContentFetchFailed = "content_fetch_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
