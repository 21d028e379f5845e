package client

import (
	"errors"
	"fmt"
)

// ErrUnknownClient is wrapped by Factory.Create when no constructor matches.
var ErrUnknownClient = errors.New("client: unknown client")

// Error is a client level failure. Msg is a translatable message id in the
// "client" domain, formatted with Args.
type Error struct {
	Msg  string
	Args []any
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if len(e.Args) > 0 {
		msg = fmt.Sprintf(e.Msg, e.Args...)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error with format arguments.
func Errorf(msg string, args ...any) *Error {
	return &Error{Msg: msg, Args: args}
}

// Wrap builds an Error around err.
func Wrap(err error, msg string, args ...any) *Error {
	return &Error{Msg: msg, Args: args, Err: err}
}
