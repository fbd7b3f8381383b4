package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger/x/token"
)

func cmdCreateMint(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction defining a new asset. The mint address is usually the
address of a freshly generated key.

The transaction must be signed by both the payer and the mint key.
`)
		fl.PrintDefaults()
	}
	var (
		payerFl     = flAddress(fl, "payer", "Address paying the storage rent.")
		mintFl      = flAddress(fl, "mint", "Address of the new mint.")
		authorityFl = flAddress(fl, "authority", "Address allowed to create new tokens.")
		decimalsFl  = fl.Uint("decimals", 0, "Number of decimal places of the asset.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "payer", "mint", "authority"); err != nil {
		return err
	}

	return writeMsgTx(output, &token.CreateMintMsg{
		Payer:     *payerFl,
		Mint:      *mintFl,
		Authority: *authorityFl,
		Decimals:  uint32(*decimalsFl),
	})
}

func cmdCreateAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction opening the associated token account of an owner for a
mint.

The transaction must be signed by the payer.
`)
		fl.PrintDefaults()
	}
	var (
		payerFl = flAddress(fl, "payer", "Address paying the storage rent.")
		ownerFl = flAddress(fl, "owner", "Owner of the new account. Defaults to the payer.")
		mintFl  = flAddress(fl, "mint", "Mint of the new account.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "payer", "mint"); err != nil {
		return err
	}
	owner := *ownerFl
	if len(owner) == 0 {
		owner = *payerFl
	}

	return writeMsgTx(output, &token.CreateAccountMsg{
		Payer: *payerFl,
		Owner: owner,
		Mint:  *mintFl,
	})
}

func cmdMintTo(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction issuing new tokens into the associated account of an
owner.

The transaction must be signed by the mint authority.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl   = flNode(fl)
		mintFl   = flAddress(fl, "mint", "Mint of the new tokens.")
		ownerFl  = flAddress(fl, "owner", "Owner of the receiving associated account.")
		amountFl = fl.Uint64("amount", 0, "Number of tokens to create.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "mint", "owner"); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	dest, err := c.AssociatedAddress(context.Background(), *ownerFl, *mintFl)
	if err != nil {
		return fmt.Errorf("cannot derive account: %s", err)
	}
	return writeMsgTx(output, &token.MintToMsg{
		Mint:        *mintFl,
		Destination: dest,
		Amount:      *amountFl,
	})
}

func cmdTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction moving tokens between the associated accounts of two
owners.

The transaction must be signed by the sending owner.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl   = flNode(fl)
		mintFl   = flAddress(fl, "mint", "Mint of the moved tokens.")
		fromFl   = flAddress(fl, "from", "Owner of the source account.")
		toFl     = flAddress(fl, "to", "Owner of the destination account.")
		amountFl = fl.Uint64("amount", 0, "Number of tokens to move.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "mint", "from", "to"); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	ctx := context.Background()
	src, err := c.AssociatedAddress(ctx, *fromFl, *mintFl)
	if err != nil {
		return fmt.Errorf("cannot derive source account: %s", err)
	}
	dest, err := c.AssociatedAddress(ctx, *toFl, *mintFl)
	if err != nil {
		return fmt.Errorf("cannot derive destination account: %s", err)
	}
	return writeMsgTx(output, &token.TransferMsg{
		Source:      src,
		Destination: dest,
		Amount:      *amountFl,
	})
}
