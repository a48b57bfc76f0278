// Package wallet wraps a local encrypted keystore as the signing session the
// chain client transacts with. It stands in for the browser wallet of the
// hosted variant: connecting resolves an address, unlocking is the approval
// step.
package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

var ErrNoAccounts = errors.New("keystore has no accounts")

// Wallet is a connected signing session bound to one account and chain.
type Wallet interface {
	// Address returns the session's account address.
	Address() ethcommon.Address

	// TransactOpts returns signing options for a transaction. Fails if the
	// account is locked.
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// KeystoreWallet is a Wallet over a go-ethereum encrypted keystore directory.
type KeystoreWallet struct {
	ks      *keystore.KeyStore
	account accounts.Account
	chainID *big.Int
}

// Open loads the keystore directory and binds to its first account.
func Open(dir string, chainID int64) (*KeystoreWallet, error) {
	ks := keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
	accs := ks.Accounts()
	if len(accs) == 0 {
		return nil, ErrNoAccounts
	}
	return &KeystoreWallet{ks: ks, account: accs[0], chainID: big.NewInt(chainID)}, nil
}

// CreateAccount makes a new encrypted account in dir and returns a wallet
// bound to it.
func CreateAccount(dir string, chainID int64, passphrase string) (*KeystoreWallet, error) {
	ks := keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
	acc, err := ks.NewAccount(passphrase)
	if err != nil {
		return nil, err
	}
	return &KeystoreWallet{ks: ks, account: acc, chainID: big.NewInt(chainID)}, nil
}

// Unlock decrypts the account key for signing. The passphrase slice is not
// retained.
func (w *KeystoreWallet) Unlock(passphrase string) error {
	return w.ks.Unlock(w.account, passphrase)
}

// Lock re-locks the account key.
func (w *KeystoreWallet) Lock() error {
	return w.ks.Lock(w.account.Address)
}

func (w *KeystoreWallet) Address() ethcommon.Address {
	return w.account.Address
}

func (w *KeystoreWallet) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyStoreTransactorWithChainID(w.ks, w.account, w.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}
