package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode is the result code of a successful operation.
	SuccessCode = 0

	internalCode uint32 = 1
	internalLog         = "internal error"
)

// ABCIInfo returns the result code and log for err. Errors that do not wrap a
// registered root error are internal: their message is replaced with a
// generic one unless debug is set.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	if code := abciCode(err); code != internalCode && code != ErrPanic.code {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return abciCode(err), fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

// Code returns the failure code carried by err, SuccessCode for nil and the
// internal code for errors without one.
func Code(err error) uint32 {
	return abciCode(err)
}

type coder interface {
	ABCICode() uint32
}

func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalCode
		}
		err = c.Cause()
	}
}

// Redact replaces errors that do not carry a code, and recovered panics, with
// a generic internal error.
func Redact(err error) error {
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if abciCode(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}

// ABCIError rebuilds an error from a result code and log as produced by
// ABCIInfo. The returned error matches its registered root error with Is.
// Codes that are not registered in this process produce an internal error.
func ABCIError(code uint32, log string) error {
	if code == SuccessCode {
		return nil
	}
	root, ok := usedCodes[code]
	if !ok || root == nil {
		return fmt.Errorf("code %d: %s", code, log)
	}
	return &resultError{root: root, log: log}
}

// resultError is an error received as a result code and log.
type resultError struct {
	root *Error
	log  string
}

func (e *resultError) Error() string {
	if e.log == "" {
		return e.root.desc
	}
	return e.log
}

func (e *resultError) Cause() error {
	return e.root
}
