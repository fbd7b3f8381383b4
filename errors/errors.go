package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when the required party did not sign, or
	// the signer is not allowed to perform the action.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a referenced account or record does not
	// exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned when a message cannot be decoded or routed.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned when a stored model fails validation.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when an entity already exists under the
	// requested key.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when a code path is reached that can only be the
	// result of a programming mistake.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an entity is not in the state required by
	// the operation.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value is not of the expected type.
	ErrType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when a balance cannot cover a
	// transfer.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrAmount is returned for malformed amounts, for example zero where a
	// positive value is required.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is returned for general input problems.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when an arithmetic result does not fit its
	// type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the storage layer fails.
	ErrDatabase = Register(17, "database")

	// ErrPanic is only set when a panic was recovered. Its message is
	// redacted from results.
	ErrPanic = Register(111222, "panic")
)

// Register returns a root error with the given code. Codes are unique across
// the process; registering the same code twice panics.
//
// Call Register only while the program starts, usually from a package level
// var block.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes keeps every registered root error by its code.
var usedCodes = map[uint32]*Error{
	// Code 1 is reserved for errors that do not originate here.
	1: nil,
}

// Error is a root error. Runtime errors wrap one of them, which is how the
// failure class and the result code are recovered.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the numeric failure code of this error class.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns a new error of this class with the given description. The two
// lines below are equivalent:
//
//	e.New("my description")
//	Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is returns true if err is this root error or wraps it.
func (e *Error) Is(err error) bool {
	// A typed nil has to be compared through reflection.
	if e == nil {
		return isNilErr(err)
	}

	for {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// Wrap extends err with description. Errors that do not carry a code (stdlib
// errors for example) are reported as internal errors.
//
// Wrap returns nil if err is nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach the stack trace once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace of the innermost wrap for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n", e.Error())
		if st := stackTrace(e); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover converts a recovered panic into an ErrPanic and stores it in err.
// Call it with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType wraps err with the type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is implemented by errors that wrap another error.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found while unwrapping err.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if v := reflect.ValueOf(err); v.Kind() == reflect.Ptr {
		return v.IsNil()
	}
	return false
}
