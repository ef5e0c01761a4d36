package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is the value of the "code" entry in a GraphQL error's extensions.
type Code string

const (
	CodeBadUserInput     Code = "BAD_USER_INPUT"
	CodeForbidden        Code = "FORBIDDEN"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeValidationFailed Code = "GRAPHQL_VALIDATION_FAILED"
	CodeInternal         Code = "INTERNAL_SERVER_ERROR"
)

// CodedError is a resolver error that is reported to clients with a distinguishable code.
type CodedError struct {
	Code    Code
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

func Forbidden(format string, arg ...interface{}) error {
	return &CodedError{Code: CodeForbidden, Message: fmt.Sprintf(format, arg...)}
}

func Unauthenticated(format string, arg ...interface{}) error {
	return &CodedError{Code: CodeUnauthenticated, Message: fmt.Sprintf(format, arg...)}
}

func BadUserInput(format string, arg ...interface{}) error {
	return &CodedError{Code: CodeBadUserInput, Message: fmt.Sprintf(format, arg...)}
}

// Internal is a server side failure whose message is safe to show to clients.
func Internal(format string, arg ...interface{}) error {
	return &CodedError{Code: CodeInternal, Message: fmt.Sprintf(format, arg...)}
}

// InvalidInput wraps err (typically a validation failure) as a BAD_USER_INPUT error.
func InvalidInput(err error, message string) error {
	return &CodedError{Code: CodeBadUserInput, Message: message, Err: err}
}

// CodeOf returns the code of the first CodedError in err's chain, or an empty code.
func CodeOf(err error) Code {
	var coded *CodedError
	if stderrors.As(err, &coded) {
		return coded.Code
	}
	var gqlErr *GraphQLError
	if stderrors.As(err, &gqlErr) {
		return gqlErr.Code()
	}
	return ""
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
