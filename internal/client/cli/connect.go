package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/usattar/mintvault/internal/client/chain"
	"github.com/usattar/mintvault/internal/client/models"
	"github.com/usattar/mintvault/internal/client/services"
	"github.com/usattar/mintvault/internal/client/wallet"
	"github.com/usattar/mintvault/internal/common"
)

// Connect opens the keystore wallet, unlocks it, dials the chain, and wires
// the mint and nft services. An empty keystore gets a new account created
// with the entered passphrase.
func (a *App) Connect(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first ('login')")
		return nil
	}

	passphrase, err := getPassword("Enter keystore passphrase", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	w, err := wallet.Open(a.config.KeystoreDir, a.config.ChainID)
	if errors.Is(err, wallet.ErrNoAccounts) {
		printlnFn("Keystore is empty, creating a new account.")
		w, err = wallet.CreateAccount(a.config.KeystoreDir, a.config.ChainID, string(passphrase))
	}
	if err != nil {
		printlnFn("Opening wallet failed:", err)
		return err
	}

	if err := w.Unlock(string(passphrase)); err != nil {
		printlnFn("Unlocking wallet failed:", err)
		return err
	}

	chainClient, err := chain.Dial(ctx, a.config.RPCEndpoint, a.config.ContractAddress,
		w, a.config.ConfirmTimeout, a.log)
	if err != nil {
		printlnFn("Connecting to chain failed:", err)
		return err
	}

	a.wallet = w
	a.mintService = services.NewMintService(a.publisher, chainClient, w, a.store, a.authService, a.log)
	a.mintService.OnMinted(func(rec models.NFTRecord) {
		printlnFn(fmt.Sprintf("Minted %q as token %d", rec.Name, rec.TokenID))
	})
	a.nftService = services.NewNFTService(chainClient, w, a.store, a.authService, a.log)

	printlnFn("Connected:", w.Address().Hex())
	return nil
}
