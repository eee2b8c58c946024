package errors

import "errors"

// Engine error taxonomy. InvalidPayload and DuplicateSubmission are expected
// caller outcomes; StorageUnavailable surfaces only after bounded retries.
var (
	ErrInvalidPayload      = errors.New("invalid payload")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrUnknownTip          = errors.New("unknown tip")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// HTTP response messages
const (
	MsgInvalidRequestBody = "Invalid request body"
	MsgInvalidPayload     = "Invalid payload"
	MsgDBOperationFailed  = "Database operation failed"
	MsgRecordNotFound     = "Record not found"
	MsgStorageUnavailable = "Storage temporarily unavailable"
)
