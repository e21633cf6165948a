// Command bakerysales analyzes bakery sales spreadsheets from the terminal.
//
//	bakerysales analyze sales.xlsx --export out/ --format xlsx
//	bakerysales preview sales.xlsx --rows 8
//	bakerysales batch ./sheets --output json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
