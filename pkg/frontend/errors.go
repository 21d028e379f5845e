package frontend

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing product, customer or basket entry.
var ErrNotFound = errors.New("not found")

// ControllerError is raised by frontend controllers. Msg is a translatable
// message id in the "controller/frontend" domain.
type ControllerError struct {
	Msg string
	Err error
}

func (e *ControllerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ControllerError) Unwrap() error { return e.Err }

// NewControllerError builds a ControllerError.
func NewControllerError(msg string, err error) *ControllerError {
	return &ControllerError{Msg: msg, Err: err}
}

// DomainError is raised by the domain layer. Msg is a translatable message id
// in the "mshop" domain.
type DomainError struct {
	Msg string
	Err error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError builds a DomainError.
func NewDomainError(msg string, err error) *DomainError {
	return &DomainError{Msg: msg, Err: err}
}

// PluginError is raised by basket plugins during checks. Codes maps a basket
// part ("product", "address", ...) to positions or keys and their error code.
type PluginError struct {
	Msg   string
	Codes map[string]map[string]string
}

func (e *PluginError) Error() string {
	return e.Msg
}

// NewPluginError builds a PluginError.
func NewPluginError(msg string, codes map[string]map[string]string) *PluginError {
	return &PluginError{Msg: msg, Codes: codes}
}
