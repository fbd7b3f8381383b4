package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/client"
)

// writeTx serialize the transaction using a protocol buffer. First bytes
// written contain the information how much space the transaction takes.
// Size information is required to be able to stream the messages:
// https://developers.google.com/protocol-buffers/docs/techniques#streaming
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

func readTx(r io.Reader) (*app.Tx, int, error) {
	// When serialized using writeTx function, first bytes contain
	// information about the actual size of the transaction message.
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	if msgSize > maxTxSize {
		return nil, txHeaderSize, fmt.Errorf("transaction too big: %d bytes", msgSize)
	}
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, err
	}

	var tx app.Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return &tx, int(msgSize + txHeaderSize), nil
}

const (
	txHeaderSize = 4
	maxTxSize    = 1 << 16
)

// writeMsgTx wraps msg in a new unsigned transaction and writes it out.
func writeMsgTx(w io.Writer, msg ledger.Msg) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	tx, err := app.NewTx(msg)
	if err != nil {
		return fmt.Errorf("cannot create transaction: %s", err)
	}
	_, err = writeTx(w, tx)
	return err
}

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// flNode registers the flag selecting the node to talk to.
func flNode(fl *flag.FlagSet) *string {
	return fl.String("node", env("LEDGERCLI_NODE", "http://localhost:8080"),
		"ledgerd API address. You can use LEDGERCLI_NODE environment variable to set it.")
}

// flKey registers the flag selecting a private key file.
func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("LEDGERCLI_PRIV_KEY", os.Getenv("HOME")+"/.ledger.priv.key"),
		"Path to the private key file. You can use LEDGERCLI_PRIV_KEY environment variable to set it.")
}

// flAddress returns an address value optionally set by a command line
// argument.
func flAddress(fl *flag.FlagSet, name, usage string) *ledger.Address {
	var a ledger.Address
	fl.Var(&a, name, usage)
	return &a
}

// required returns an error naming the first of the flags that was not
// set on the command line.
func required(fl *flag.FlagSet, names ...string) error {
	set := make(map[string]bool)
	fl.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range names {
		if !set[name] {
			return fmt.Errorf("-%s is required", name)
		}
	}
	return nil
}

func newClient(node string) (*client.Client, error) {
	if node == "" {
		return nil, errors.New("node address is required")
	}
	return client.NewClient(node), nil
}
