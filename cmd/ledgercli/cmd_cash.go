package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger/x/cash"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction moving lamports from one wallet to another.

The transaction must be signed by the source wallet key.
`)
		fl.PrintDefaults()
	}
	var (
		fromFl     = flAddress(fl, "from", "Source wallet address.")
		toFl       = flAddress(fl, "to", "Destination wallet address.")
		lamportsFl = fl.Uint64("lamports", 0, "Number of lamports to move.")
		memoFl     = fl.String("memo", "", "A short message attached to the transfer.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "from", "to"); err != nil {
		return err
	}

	return writeMsgTx(output, &cash.SendMsg{
		Source:      *fromFl,
		Destination: *toFl,
		Lamports:    *lamportsFl,
		Memo:        *memoFl,
	})
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Print the lamports balance of an address. When a mint is given, print the
token amount held by the associated account of the address instead.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl    = flNode(fl)
		addressFl = flAddress(fl, "address", "Address to check.")
		mintFl    = flAddress(fl, "mint", "Optional mint of the checked token.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "address"); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if len(*mintFl) == 0 {
		lamports, err := c.Lamports(ctx, *addressFl)
		if err != nil {
			return fmt.Errorf("cannot get balance: %s", err)
		}
		_, err = fmt.Fprintln(output, lamports)
		return err
	}

	ata, err := c.AssociatedAddress(ctx, *addressFl, *mintFl)
	if err != nil {
		return fmt.Errorf("cannot derive account: %s", err)
	}
	acct, err := c.TokenAccount(ctx, ata)
	if err != nil {
		return fmt.Errorf("cannot get account: %s", err)
	}
	_, err = fmt.Fprintln(output, acct.Amount)
	return err
}
