package portal

import "fmt"

type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrInvalidCredentials
	ErrNetworkIssue
	ErrParsingError
	ErrServer
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNone:
		return "none"
	case ErrInvalidCredentials:
		return "invalid_credentials"
	case ErrNetworkIssue:
		return "network_issue"
	case ErrParsingError:
		return "parsing_error"
	case ErrServer:
		return "server_error"
	default:
		return fmt.Sprintf("error_code(%d)", int(c))
	}
}

// Error is returned by every Client call that fails. Message is suitable for
// showing to the user as is.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}
