package compensation

import (
	"reflect"

	"github.com/iov-one/compensation/errors"
)

// Msg is a request for a state change. It carries no authentication, that
// is the job of the wrapping Tx.
type Msg interface {
	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+ and starts with the extension name, for example
	// "payout/distribute".
	Path() string

	// Validate checks the message on its own, without reading the state.
	Validate() error
}

// Marshaller is anything that can be represented in binary. Marshal may
// validate the value first.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also be decoded in place.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is what a client submits: a single message and whatever the
// decorators need to authorize it.
type Tx interface {
	GetMsg() (Msg, error)
}

// GetPath returns "(missing)" if tx has no readable message.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg copies the message of tx into destination, a non nil pointer to
// the expected message type, after validating it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "nil message")
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination must be a non nil pointer, got %T", destination)
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		if src.IsNil() {
			return errors.Wrap(errors.ErrState, "nil message")
		}
		src = src.Elem()
	}
	if src.Type() != dest.Elem().Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	dest.Elem().Set(src)
	return nil
}
