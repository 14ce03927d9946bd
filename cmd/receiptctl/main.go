package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/damon-houk/receipt-processor/internal/domain/validation"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/api"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootFlags := ff.NewFlagSet("receiptctl")
	addr := rootFlags.StringLong("addr", "http://localhost:8080", "receipt processor base URL")
	timeout := rootFlags.DurationLong("timeout", 10*time.Second, "per-request timeout")

	newClient := func() *api.ReceiptAPIClient {
		return api.NewReceiptAPIClient(*addr, &http.Client{Timeout: *timeout})
	}

	processCmd := &ff.Command{
		Name:      "process",
		Usage:     "receiptctl process <receipt.json>",
		ShortHelp: "submit a receipt and print its id",
		Flags:     ff.NewFlagSet("process").SetParent(rootFlags),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("process requires exactly one receipt file")
			}

			receipt, err := readReceipt(args[0])
			if err != nil {
				return err
			}

			id, err := newClient().ProcessReceipt(ctx, receipt)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(stdout, id)
			return nil
		},
	}

	pointsCmd := &ff.Command{
		Name:      "points",
		Usage:     "receiptctl points <id>",
		ShortHelp: "print the points awarded to a receipt",
		Flags:     ff.NewFlagSet("points").SetParent(rootFlags),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("points requires exactly one receipt id")
			}

			points, err := newClient().GetPoints(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(stdout, points)
			return nil
		},
	}

	root := &ff.Command{
		Name:        "receiptctl",
		Usage:       "receiptctl [FLAGS] <SUBCOMMAND> ...",
		ShortHelp:   "command-line client for the receipt processor",
		Flags:       rootFlags,
		Subcommands: []*ff.Command{processCmd, pointsCmd},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}

	err := root.ParseAndRun(ctx, args, ff.WithEnvVarPrefix("RECEIPTCTL"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		if len(args) == 0 {
			return errors.New("no subcommand given")
		}
		return nil
	}
	return err
}

func readReceipt(path string) (*validation.ReceiptInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var receipt validation.ReceiptInput
	if err := json.NewDecoder(f).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &receipt, nil
}

// describe flattens violation details into the error message
func describe(err error) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Violations) == 0 {
		return err
	}

	msg := apiErr.Error()
	for _, v := range apiErr.Violations {
		msg += fmt.Sprintf("\n  %s: %s", v.Field, v.Reason)
	}
	return errors.New(msg)
}
