package comptest

import "github.com/iov-one/compensation"

// Tx carries a single message. A non nil Err is returned instead of Msg,
// which mimics a transaction whose payload cannot be decoded.
type Tx struct {
	Msg compensation.Msg
	Err error
}

var _ compensation.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (compensation.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is routed to RoutePath and fails validation with Err.
type Msg struct {
	RoutePath string
	Err       error
}

var _ compensation.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }
