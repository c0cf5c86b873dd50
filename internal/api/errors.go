package api

import "errors"

var (
	ErrInvalidRequest = errors.New("api: invalid request")
	ErrTooLarge       = errors.New("api: operand too large")
)

// requestError is a malformed request. code is reported in the error body.
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return ErrInvalidRequest }

func newInvalidRequest(code, msg string) error {
	return &requestError{code: code, msg: msg}
}

// requestErrorCode returns the code carried by err, if any.
func requestErrorCode(err error) string {
	var re *requestError
	if errors.As(err, &re) {
		return re.code
	}
	return ""
}
