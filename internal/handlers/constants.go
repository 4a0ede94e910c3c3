package handlers

const (
	ErrInvalidJSON         = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInternalServerError = "Internal server error"
	ErrNotFound            = "Not found"
	ErrTooManyRequests     = "Too many requests"

	// maxBodyBytes caps JSON request bodies
	maxBodyBytes = 64 << 10
)
