package errors

import (
	"fmt"
)

var ErrMissingIdentifier = fmt.Errorf("missing identifier")
var ErrMissingEmail = fmt.Errorf("missing email")
var ErrMissingStatus = fmt.Errorf("missing status")
var ErrMemberUpdate = fmt.Errorf("member update failed")
var ErrNotFound = fmt.Errorf("not found")
var ErrRequestFailed = fmt.Errorf("api request failed")
var ErrUnknownCode = fmt.Errorf("unknown code")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewMissingIdentifierError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrMissingIdentifier,
	}
}

func NewMissingEmailError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrMissingEmail,
	}
}

func NewMissingStatusError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrMissingStatus,
	}
}

func NewMemberUpdateError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrMemberUpdate,
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewUnknownCodeError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrUnknownCode,
	}
}

// RequestFailedError is returned when the API answers with a status code that
// is neither a success nor a not found. The raw response body is kept around
// so that callers can inspect what the platform had to say.
type RequestFailedError struct {
	StatusCode int
	Body       []byte
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("api request failed with status code %d", e.StatusCode)
}

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

func NewRequestFailedError(statusCode int, body []byte) error {
	return &RequestFailedError{
		StatusCode: statusCode,
		Body:       body,
	}
}
