package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created and the address of the key is printed. This command fails if the
private key file already exists.
`)
		fl.PrintDefaults()
	}
	keyPathFl := flKey(fl)
	if err := fl.Parse(args); err != nil {
		return err
	}

	key := crypto.GenPrivKeyEd25519()
	if err := crypto.SaveKeyFile(*keyPathFl, key); err != nil {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return fmt.Errorf("cannot save private key: %s", err)
	}
	_, err := fmt.Fprintln(output, key.Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	keyPathFl := flKey(fl)
	if err := fl.Parse(args); err != nil {
		return err
	}

	key, err := crypto.LoadKeyFile(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}
