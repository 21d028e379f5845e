// Package decorators provides the built-in client decorators and registers
// them by name.
package decorators
