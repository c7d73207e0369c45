package app

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/crypto"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/x/payout"
	"github.com/iov-one/compensation/x/sigs"
	"github.com/iov-one/compensation/x/token"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Tx is the transaction envelope of the payout chain. Exactly one message
// field must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `json:"signatures"`

	SendMsg                *token.SendMsg                 `json:"send_msg,omitempty"`
	RegisterUsersMsg       *payout.RegisterUsersMsg       `json:"register_users_msg,omitempty"`
	DistributeMsg          *payout.DistributeMsg          `json:"distribute_msg,omitempty"`
	UpdateConfigurationMsg *payout.UpdateConfigurationMsg `json:"update_configuration_msg,omitempty"`
}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps given message in an unsigned envelope.
func NewTx(msg compensation.Msg) (*Tx, error) {
	var tx Tx
	switch m := msg.(type) {
	case *token.SendMsg:
		tx.SendMsg = m
	case *payout.RegisterUsersMsg:
		tx.RegisterUsersMsg = m
	case *payout.DistributeMsg:
		tx.DistributeMsg = m
	case *payout.UpdateConfigurationMsg:
		tx.UpdateConfigurationMsg = m
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return &tx, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (compensation.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message carried by the envelope.
func (tx *Tx) GetMsg() (compensation.Msg, error) {
	var msgs []compensation.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.RegisterUsersMsg != nil {
		msgs = append(msgs, tx.RegisterUsersMsg)
	}
	if tx.DistributeMsg != nil {
		msgs = append(msgs, tx.DistributeMsg)
	}
	if tx.UpdateConfigurationMsg != nil {
		msgs = append(msgs, tx.UpdateConfigurationMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrEmpty, "transaction message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "%d messages in one transaction", len(msgs))
	}
}

// GetSignatures returns the attached signatures.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the encoded transaction without its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

// Sign appends the signature of signer, computed for given chain and
// sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "transaction")
	}
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
