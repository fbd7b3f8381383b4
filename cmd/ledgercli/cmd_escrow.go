package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger/x/escrow"
)

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Print the escrow record address, its bump and the vault address of an offer.
The offer does not have to exist.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl  = flNode(fl)
		makerFl = flAddress(fl, "maker", "Address of the offer maker.")
		mintAFl = flAddress(fl, "mint-a", "Mint of the offered asset.")
		idFl    = fl.Uint64("id", 0, "Offer id chosen by the maker.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "maker", "mint-a"); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	addrs, err := c.DeriveEscrow(context.Background(), *makerFl, *mintAFl, *idFl)
	if err != nil {
		return fmt.Errorf("cannot derive addresses: %s", err)
	}
	return printJSON(output, addrs)
}

func cmdInitialize(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction opening a swap offer. The offered amount of mint A is
moved from the maker's associated account into a vault owned by the offer.
Anyone can take the offer by paying the wanted amount of mint B.

The transaction must be signed by the maker.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl    = flNode(fl)
		makerFl   = flAddress(fl, "maker", "Address of the offer maker.")
		mintAFl   = flAddress(fl, "mint-a", "Mint of the offered asset.")
		mintBFl   = flAddress(fl, "mint-b", "Mint of the wanted asset.")
		idFl      = fl.Uint64("id", 0, "Offer id, unique among the live offers of the maker.")
		offeredFl = fl.Uint64("offered", 0, "Amount of mint A locked in the vault.")
		wantedFl  = fl.Uint64("wanted", 0, "Amount of mint B the maker receives.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "maker", "mint-a", "mint-b"); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	ctx := context.Background()
	addrs, err := c.DeriveEscrow(ctx, *makerFl, *mintAFl, *idFl)
	if err != nil {
		return fmt.Errorf("cannot derive addresses: %s", err)
	}
	makerAtaA, err := c.AssociatedAddress(ctx, *makerFl, *mintAFl)
	if err != nil {
		return fmt.Errorf("cannot derive maker account: %s", err)
	}

	return writeMsgTx(output, &escrow.InitializeMsg{
		Maker:     *makerFl,
		MintA:     *mintAFl,
		MintB:     *mintBFl,
		MakerAtaA: makerAtaA,
		Escrow:    addrs.Escrow,
		Vault:     addrs.Vault,
		ID:        *idFl,
		Offered:   *offeredFl,
		Wanted:    *wantedFl,
	})
}

func cmdRefund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction cancelling a live offer. The vault content returns to the
maker and the offer is closed.

The transaction must be signed by the maker.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl   = flNode(fl)
		escrowFl = flAddress(fl, "escrow", "Address of the escrow record.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "escrow"); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	ctx := context.Background()
	e, err := c.Escrow(ctx, *escrowFl)
	if err != nil {
		return fmt.Errorf("cannot load escrow: %s", err)
	}
	makerAtaA, err := c.AssociatedAddress(ctx, e.Maker, e.MintA)
	if err != nil {
		return fmt.Errorf("cannot derive maker account: %s", err)
	}

	return writeMsgTx(output, &escrow.RefundMsg{
		Maker:     e.Maker,
		Escrow:    *escrowFl,
		MakerAtaA: makerAtaA,
		Vault:     e.Vault,
	})
}

func cmdTake(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Create a transaction accepting a live offer. The taker pays the wanted amount
of mint B to the maker and receives the vault content. Both associated
accounts of the taker and the mint B account of the maker must exist.

The transaction must be signed by the taker.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl   = flNode(fl)
		escrowFl = flAddress(fl, "escrow", "Address of the escrow record.")
		takerFl  = flAddress(fl, "taker", "Address of the taker.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if err := required(fl, "escrow", "taker"); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	ctx := context.Background()
	e, err := c.Escrow(ctx, *escrowFl)
	if err != nil {
		return fmt.Errorf("cannot load escrow: %s", err)
	}
	takerAtaA, err := c.AssociatedAddress(ctx, *takerFl, e.MintA)
	if err != nil {
		return fmt.Errorf("cannot derive taker account: %s", err)
	}
	takerAtaB, err := c.AssociatedAddress(ctx, *takerFl, e.MintB)
	if err != nil {
		return fmt.Errorf("cannot derive taker account: %s", err)
	}
	makerAtaB, err := c.AssociatedAddress(ctx, e.Maker, e.MintB)
	if err != nil {
		return fmt.Errorf("cannot derive maker account: %s", err)
	}

	return writeMsgTx(output, &escrow.TakeMsg{
		Taker:     *takerFl,
		Maker:     e.Maker,
		Escrow:    *escrowFl,
		TakerAtaA: takerAtaA,
		TakerAtaB: takerAtaB,
		MakerAtaB: makerAtaB,
		Vault:     e.Vault,
	})
}

func cmdEscrows(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
List live offers, optionally only those of a single maker.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl  = flNode(fl)
		makerFl = flAddress(fl, "maker", "Only list offers of this maker.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	list, err := c.Escrows(context.Background(), *makerFl)
	if err != nil {
		return fmt.Errorf("cannot list escrows: %s", err)
	}
	return printJSON(output, list)
}

func printJSON(output io.Writer, v interface{}) error {
	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
