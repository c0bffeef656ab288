/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat and Content Errors
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrVoiceClipTooLarge:     {Code: ErrVoiceClipTooLarge, Message: "Voice clip is too large."},
	ErrVoiceClipInvalid:      {Code: ErrVoiceClipInvalid, Message: "Voice clip format is not supported."},
	ErrJoinRequired:          {Code: ErrJoinRequired, Message: "Join before sending events."},

	// 3xxx: Session Errors
	ErrSessionKicked: {Code: ErrSessionKicked, Message: "You connected from another device or tab."},

	// 4xxx: Storage Errors
	ErrStorageDisabled: {Code: ErrStorageDisabled, Message: "Voice messages are not available on this server.", Status: http.StatusNotImplemented},
	ErrStorageFailed:   {Code: ErrStorageFailed, Message: "Voice clip upload failed. Please try again."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
