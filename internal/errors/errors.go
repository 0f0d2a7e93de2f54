package errors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Code codes.Code

const (
	CodeInvalidArgument = Code(codes.InvalidArgument)
	CodeNotFound        = Code(codes.NotFound)
	CodeAlreadyExists   = Code(codes.AlreadyExists)
	CodeInternal        = Code(codes.Internal)
	CodeUnavailable     = Code(codes.Unavailable)
)

var code2http = map[Code]int{
	CodeInvalidArgument: http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeAlreadyExists:   http.StatusConflict,
	CodeInternal:        http.StatusInternalServerError,
	CodeUnavailable:     http.StatusServiceUnavailable,
}

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	err     error
}

func New(code Code, opts ...Option) *Error {
	e := &Error{
		Code:    code,
		Message: codes.Code(code).String(),
	}

	for _, opt := range opts {
		opt.apply(e)
	}

	return e
}

func (e *Error) Error() string {
	s := fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
	if e.err != nil {
		s += fmt.Sprintf(", err: %s", e.err)
	}

	return s
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) GRPCStatus() *status.Status {
	return status.New(codes.Code(e.Code), e.Message)
}

func (e *Error) HTTPStatusCode() int {
	if c, ok := code2http[e.Code]; ok {
		return c
	}

	return http.StatusInternalServerError
}

// Convert returns err as an *Error. Errors that are not already coded become Internal.
func Convert(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return Internal(err)
	}

	return e
}

// FromGRPC rebuilds a coded error from a status received over gRPC.
// Transport failures without a status surface as Unavailable.
func FromGRPC(err error) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return New(CodeUnavailable, WithCause(err))
	}

	code := Code(st.Code())
	if code == Code(codes.DeadlineExceeded) || code == Code(codes.Canceled) || code == Code(codes.Unknown) {
		code = CodeUnavailable
	}

	return New(code, WithMessagef("%s", st.Message()), WithCause(err))
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func Internal(err error) *Error {
	return New(CodeInternal, WithCause(err))
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, WithMessagef(format, args...))
}

func InvalidArgument(format string, args ...any) *Error {
	return New(CodeInvalidArgument, WithMessagef(format, args...))
}

// StoreUnavailable marks a failure of the backing database.
func StoreUnavailable(err error) *Error {
	return New(CodeUnavailable, WithMessagef("store unavailable"), WithCause(err))
}

type Option interface {
	apply(*Error)
}

type optionFunc func(*Error)

func (f optionFunc) apply(e *Error) {
	f(e)
}

func WithCause(err error) Option {
	return optionFunc(func(e *Error) {
		e.err = err
	})
}

func WithMessagef(format string, args ...any) Option {
	return optionFunc(func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	})
}
