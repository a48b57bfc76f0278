package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// Transfer prompts for a token id and a recipient address and moves the
// token on chain. The matching local record is marked transferred.
func (a *App) Transfer(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first ('login')")
		return nil
	}
	if !a.isConnected() {
		printlnFn("Connect a wallet first ('connect')")
		return nil
	}

	raw, err := getSimpleText(a.reader, "Token ID", os.Stdout)
	if err != nil {
		return err
	}
	tokenID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		printlnFn("Invalid token id:", raw)
		return err
	}

	to, err := getSimpleText(a.reader, "Recipient address", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.nftService.Transfer(ctx, tokenID, to); err != nil {
		printlnFn("Transfer failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Token %d transferred to %s", tokenID, to))
	return nil
}
