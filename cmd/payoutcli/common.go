package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/compensation/client"
	"github.com/iov-one/compensation/cmd/payoutd/app"
	"github.com/iov-one/compensation/crypto"
)

const txHeaderSize = 4

// connect returns a connection to the tendermint node at given address.
var connect = func(tmAddr string) client.Conn {
	return client.NewHTTPConnection(tmAddr)
}

func defaultKeyPath() string {
	return env("PAYOUTCLI_PRIV_KEY", os.Getenv("HOME")+"/.payoutcli.key")
}

func defaultTmAddr() string {
	return env("PAYOUTCLI_TM_ADDR", "http://localhost:26657")
}

func defaultPassphrase() string {
	return env("PAYOUTCLI_PASSPHRASE", "")
}

// writeTx serialize the transaction. First bytes written contain the
// information how much space the transaction takes, so that many
// transactions can be streamed one after another.
func writeTx(w io.Writer, tx *app.Tx) (int, error) {
	b, err := tx.Marshal()
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

// readTx returns io.EOF if the stream ends before the next transaction.
func readTx(r io.Reader) (*app.Tx, int, error) {
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, n, fmt.Errorf("truncated transaction header")
		}
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, fmt.Errorf("truncated transaction: %s", err)
	}

	var tx app.Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return &tx, int(msgSize + txHeaderSize), nil
}

// readTxs reads all transactions until the end of the stream.
func readTxs(r io.Reader) ([]*app.Tx, error) {
	var txs []*app.Tx
	for {
		tx, _, err := readTx(r)
		switch err {
		case nil:
			txs = append(txs, tx)
		case io.EOF:
			return txs, nil
		default:
			return nil, err
		}
	}
}

// loadKey decrypts the private key stored at path.
func loadKey(path, passphrase string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	seed, err := decryptSeed(raw, passphrase)
	if err != nil {
		return nil, err
	}
	return keyFromSeed(seed)
}
