package compensation

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/compensation/errors"
)

var (
	// AddressLength is the size of every address. It must not change once
	// a ledger was written.
	AddressLength = 20

	// Bech32Prefix is the human readable part of bech32 addresses.
	Bech32Prefix = "comp"
)

// Address identifies a beneficiary, a token wallet or a signer. It is the
// digest of a Condition.
type Address []byte

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate rejects empty addresses and addresses of the wrong size.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: %v", a)
	}
	return nil
}

// String returns upper case hex, or "(nil)" for an empty address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with Bech32Prefix.
func (a Address) Bech32() (string, error) {
	data, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	enc, err := bech32.Encode(Bech32Prefix, data)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "encode bech32: %s", err)
	}
	return enc, nil
}

// MarshalJSON writes upper case hex instead of the base64 default. An empty
// address is an empty string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts every form ParseAddress does.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode json")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders are selected by the prefix of an encoded address.
var addressDecoders = map[string]func(string) (Address, error){
	"hex":    decodeHexAddress,
	"cond":   decodeConditionAddress,
	"bech32": decodeBech32Address,
}

// ParseAddress decodes "hex:<hex>", "cond:<condition>" or
// "bech32:<bech32>". Without a prefix hex is assumed. An empty value
// decodes to a nil address without an error.
func ParseAddress(enc string) (Address, error) {
	format := "hex"
	if i := strings.Index(enc, ":"); i >= 0 {
		format, enc = enc[:i], enc[i+1:]
	}
	if enc == "" {
		return nil, nil
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
	addr, err := decode(enc)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func decodeHexAddress(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode hex: %s", err)
	}
	return raw, nil
}

func decodeConditionAddress(s string) (Address, error) {
	var c Condition
	if err := c.deserialize(s); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.Address(), nil
}

func decodeBech32Address(s string) (Address, error) {
	_, data, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "convert bech32 payload: %s", err)
	}
	return raw, nil
}
