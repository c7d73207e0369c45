package comptest

import (
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/crypto"
)

// NewKey returns a random signing key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivateKey()
}

// NewCondition returns the condition of a random key.
func NewCondition() compensation.Condition {
	return NewKey().PublicKey().Condition()
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. It fails the test on error.
func ParseAddress(t testing.TB, encodedAddress string) compensation.Address {
	t.Helper()

	addr, err := compensation.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
