package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger/crypto"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Read binary serialized transaction from standard input and sign it using
provided private key. The chain id and the sequence of the signer are taken
from the node.

A transaction can be signed by many keys. Chain the command to add more
signatures.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl    = flNode(fl)
		keyPathFl = flKey(fl)
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	key, err := crypto.LoadKeyFile(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	if err := c.SignTx(context.Background(), tx, key); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}

	_, err = writeTx(output, tx)
	return err
}
