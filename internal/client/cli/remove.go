package cli

import (
	"context"
	"os"
)

// Remove prompts for a record id and deletes it from the local collection.
// The token itself stays on chain.
func (a *App) Remove(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first ('login')")
		return nil
	}

	id, err := getSimpleText(a.reader, "Record ID (see 'list')", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.nftService.Remove(ctx, id); err != nil {
		printlnFn("Removing failed:", err)
		return err
	}

	printlnFn("Removed. The token itself stays on chain.")
	return nil
}
