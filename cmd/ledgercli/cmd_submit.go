package main

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Read binary serialized transaction from standard input and submit it.

Make sure to collect enough signatures before submitting the transaction.
The result is printed even when the transaction failed.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl     = flNode(fl)
		simulateFl = fl.Bool("simulate", false, "Run the transaction without committing its changes.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	c, err := newClient(*nodeFl)
	if err != nil {
		return err
	}
	submit := c.SubmitTx
	if *simulateFl {
		submit = c.SimulateTx
	}
	res, txErr := submit(context.Background(), tx)
	if res == nil {
		return fmt.Errorf("cannot submit transaction: %s", txErr)
	}
	if err := printJSON(output, res); err != nil {
		return err
	}
	if txErr != nil {
		return fmt.Errorf("transaction failed: %s", txErr)
	}
	return nil
}
