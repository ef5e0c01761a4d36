package errors

import (
	stderrors "errors"
	"fmt"
)

type GraphQLError struct {
	Message       string                 `json:"message"`
	Locations     []Location             `json:"locations,omitempty"`
	Path          []interface{}          `json:"path,omitempty"`
	Rule          string                 `json:"-"`
	ResolverError error                  `json:"-"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
}

func (err *GraphQLError) Error() string {
	if err == nil {
		return "<nil>"
	}
	str := fmt.Sprintf("graphql: %s", err.Message)
	for _, loc := range err.Locations {
		str += fmt.Sprintf(" (%d:%d)", loc.Line, loc.Column)
	}
	if err.Path != nil {
		str += fmt.Sprintf(" path: %v", err.Path)
	}
	return str
}

func (err *GraphQLError) Unwrap() error {
	return err.ResolverError
}

// Code returns the extensions code of the error, or an empty code.
func (err *GraphQLError) Code() Code {
	if err == nil || err.Extensions == nil {
		return ""
	}
	code, _ := err.Extensions["code"].(Code)
	return code
}

type MultiError []*GraphQLError

func (m MultiError) Error() string {
	var res string
	for _, err := range m {
		res += err.Error() + "\n"
	}
	return res
}

var _ error = (*GraphQLError)(nil)

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (a Location) Before(b Location) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

func New(format string, arg ...interface{}) *GraphQLError {
	return &GraphQLError{
		Message: fmt.Sprintf(format, arg...),
	}
}

// InternalMessage replaces the message of errors without a code, which may carry backend
// details such as addresses.
const InternalMessage = "internal server error"

// Wrap turns a resolver error into a GraphQLError located at path. Errors that already are
// GraphQLErrors keep their own path and locations. Errors without a code are reported as
// INTERNAL_SERVER_ERROR with InternalMessage; the original error stays in ResolverError.
func Wrap(err error, path []interface{}, locations ...Location) *GraphQLError {
	var gqlErr *GraphQLError
	if stderrors.As(err, &gqlErr) {
		return gqlErr
	}
	res := &GraphQLError{
		Message:       err.Error(),
		Locations:     locations,
		Path:          path,
		ResolverError: err,
	}
	code := CodeOf(err)
	if code == "" {
		code = CodeInternal
		res.Message = InternalMessage
	}
	res.Extensions = map[string]interface{}{"code": code}
	return res
}
