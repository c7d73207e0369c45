package main

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"github.com/iov-one/compensation/crypto"
	"golang.org/x/crypto/argon2"
)

const (
	// mnemonicEntropy gives a 24 word mnemonic.
	mnemonicEntropy = 256

	argon2Time        = 3
	argon2Memory      = 64 * 1024
	argon2Parallelism = 4
	argon2KeyLen      = 32

	saltLen     = 16
	checksumLen = 4
)

var (
	errDecryption       = fmt.Errorf("cannot decrypt key file, wrong passphrase?")
	errChecksumMismatch = fmt.Errorf("key file checksum mismatch")
)

func newMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropy)
	if err != nil {
		return "", fmt.Errorf("cannot generate entropy: %s", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("cannot generate mnemonic: %s", err)
	}
	return mnemonic, nil
}

// seedFromMnemonic returns the bip39 seed of a mnemonic. Extra whitespace
// between words is ignored.
func seedFromMnemonic(mnemonic string) ([]byte, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("cannot derive seed: %s", err)
	}
	return seed, nil
}

func keyFromSeed(seed []byte) (crypto.PrivateKey, error) {
	return crypto.PrivateKeyFromSeed(seed)
}

// encryptSeed returns salt || nonce || AES-GCM(argon2id(passphrase, salt), seed || checksum)
func encryptSeed(seed []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("cannot generate salt: %s", err)
	}
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cannot generate nonce: %s", err)
	}

	sum := sha256.Sum256(seed)
	plaintext := append(append([]byte{}, seed...), sum[:checksumLen]...)

	out := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func decryptSeed(raw []byte, passphrase string) ([]byte, error) {
	if len(raw) < saltLen {
		return nil, errDecryption
	}
	salt := raw[:saltLen]
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	if len(raw) < saltLen+gcm.NonceSize()+checksumLen {
		return nil, errDecryption
	}
	nonce := raw[saltLen : saltLen+gcm.NonceSize()]
	plaintext, err := gcm.Open(nil, nonce, raw[saltLen+gcm.NonceSize():], nil)
	if err != nil || len(plaintext) < checksumLen {
		return nil, errDecryption
	}
	seed := plaintext[:len(plaintext)-checksumLen]
	sum := sha256.Sum256(seed)
	if subtle.ConstantTimeCompare(sum[:checksumLen], plaintext[len(seed):]) != 1 {
		return nil, errChecksumMismatch
	}
	return seed, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cannot create cipher: %s", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cannot create gcm: %s", err)
	}
	return gcm, nil
}
