package cli

import (
	"context"
	"fmt"
)

// List prints the signed-in user's records: record id, token id, name, and
// transfer state.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first ('login')")
		return nil
	}

	recs, err := a.nftService.List(ctx)
	if err != nil {
		printlnFn("Listing failed:", err)
		return err
	}
	if len(recs) == 0 {
		printlnFn("No NFTs yet. Mint one with 'mint'.")
		return nil
	}

	for _, r := range recs {
		line := fmt.Sprintf("%s  token %d  %q  %s", r.ID, r.TokenID, r.Name, shortAddress(r.WalletAddress))
		if r.Transferred {
			line += fmt.Sprintf("  transferred to %s", shortAddress(r.TransferredTo))
		}
		printlnFn(line)
	}
	return nil
}
