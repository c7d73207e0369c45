package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// SuccessABCICode is the response code of an accepted transaction.
const SuccessABCICode uint32 = 0

// Errors without a registered code share code 1. Their message may contain
// details of the node, so outside of debug mode it is replaced.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log of an ABCI response reporting err.
// A nil error is a success. Registered errors keep their message, the rest
// are redacted unless debug is set. In debug mode the log carries the stack
// trace as well.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode follows the chain of causes until an error with a code is found.
// A collection reports the code of its first member.
func abciCode(err error) uint32 {
	for !isNilErr(err) {
		switch e := err.(type) {
		case coder:
			return e.ABCICode()
		case multiErr:
			err = e[0]
		case causer:
			err = e.Cause()
		default:
			return internalABCICode
		}
	}
	return SuccessABCICode
}

// isNilErr also reports typed nil pointers, like a nil *Error stored in an
// error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// Redact replaces panics and errors without a registered code with a
// generic internal error. In debug mode err is returned unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
