package handlers

const (
	ErrInvalidJSONBody     = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
	ErrGameNotFound        = "Game not found"
	ErrUnknownMode         = "Unknown game mode"
	ErrTooManyRequests     = "Too many requests"
)
