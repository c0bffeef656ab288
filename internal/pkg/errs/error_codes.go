/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Chat and Content Errors
const (
	// ErrMessageContentTooLong indicates that the message text exceeded the maximum length limit.
	ErrMessageContentTooLong = 2001

	// ErrVoiceClipTooLarge indicates that a voice clip exceeded the maximum allowed size.
	ErrVoiceClipTooLarge = 2002

	// ErrVoiceClipInvalid indicates that a voice clip had an unsupported format or a malformed reference.
	ErrVoiceClipInvalid = 2003

	// ErrJoinRequired indicates the connection sent an event before a valid user:join.
	ErrJoinRequired = 2004
)

// 3xxx: Session Errors
const (
	// ErrSessionKicked indicates that the current client connection has been replaced.
	ErrSessionKicked = 3001
)

// 4xxx: Storage Errors
const (
	// ErrStorageDisabled indicates that voice-clip storage is not configured on this server.
	ErrStorageDisabled = 4001

	// ErrStorageFailed indicates that the storage backend rejected or failed an operation.
	ErrStorageFailed = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
