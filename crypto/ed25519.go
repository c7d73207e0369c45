/*
Package crypto wraps the ed25519 keys used to sign transactions and turns
public keys into authorization conditions.
*/
package crypto

import (
	"crypto/rand"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"golang.org/x/crypto/ed25519"
)

const (
	// ExtensionName is used as the extension section of key conditions
	ExtensionName = "sigs"

	// SeedSize is the number of bytes required to derive a private key.
	SeedSize = ed25519.SeedSize
)

// Signer is the private half of a key pair.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Validate returns an error if the key has the wrong size.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key of %d bytes", len(p))
	}
	return nil
}

// Condition encodes the public key into an authorization condition
func (p PublicKey) Condition() compensation.Condition {
	return compensation.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the address of the key condition.
func (p PublicKey) Address() compensation.Address {
	return p.Condition().Address()
}

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

var _ Signer = PrivateKey(nil)

// Sign returns a matching signature for this private key
func (p PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key of %d bytes", len(p))
	}
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// GenPrivateKey returns a random new private key
func GenPrivateKey() PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivateKeyFromSeed will deterministically generate a private key from the
// first SeedSize bytes of the seed. Use if you have a strong source of
// external randomness (a mnemonic seed), or for deterministic keys in test
// cases.
func PrivateKeyFromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) < SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must have at least %d bytes", SeedSize)
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed[:SeedSize])), nil
}
