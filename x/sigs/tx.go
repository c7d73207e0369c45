package sigs

import "github.com/iov-one/compensation"

// SignedTx is a transaction the Decorator can authenticate.
type SignedTx interface {
	compensation.Tx

	// GetSignBytes returns the deterministic encoding of everything but
	// the signatures.
	GetSignBytes() ([]byte, error)

	GetSignatures() []*StdSignature
}
