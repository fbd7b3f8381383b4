package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	ledgerd "github.com/iov-one/ledger/cmd/ledgerd/app"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Read binary serialized transaction from standard input and print it in a
human readable form.
`)
		fl.PrintDefaults()
	}
	if err := fl.Parse(args); err != nil {
		return err
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	// Decoding does not depend on the program ids.
	r := ledgerd.Router(ledgerd.Authenticator(), escrow.DefaultConfig())
	msg, err := r.DecodeMsg(tx.Path, tx.Msg)
	if err != nil {
		return fmt.Errorf("cannot decode message: %s", err)
	}

	return printJSON(output, struct {
		Path       string               `json:"path"`
		Msg        ledger.Msg           `json:"msg"`
		Signatures []*sigs.StdSignature `json:"signatures"`
	}{
		Path:       tx.Path,
		Msg:        msg,
		Signatures: tx.Signatures,
	})
}
