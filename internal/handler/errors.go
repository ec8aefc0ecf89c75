package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain
// consistency.
const (
	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Resource error messages
	ErrMsgAreaNotFoundHTTP   = "Area not found"
	ErrMsgPlayerNotFoundHTTP = "Player not found"

	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."
)
