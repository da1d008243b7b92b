package errors

// User-friendly error messages
const (
	MsgInvalidInput       = "The provided input is invalid. Please check your request and try again."
	MsgListingNotFound    = "Listing not found."
	MsgNotFound           = "The requested resource was not found."
	MsgUpstreamError      = "The location service returned an unexpected response. Please try again."
	MsgNetworkError       = "We couldn't reach the location service. Please try again in a few minutes."
	MsgServiceUnavailable = "The service is temporarily unavailable. Please try again in a few minutes."
	MsgRateLimited        = "You're making requests too quickly! Please wait a moment and try again."
	MsgUnauthorized       = "You must be signed in to do that."
	MsgInvalidCredentials = "Invalid email or password."
	MsgEmailTaken         = "An account with this email already exists."
	MsgInternalError      = "Something went wrong on our end. Please try again later."
)
