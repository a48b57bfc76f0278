// Package chain submits mint and transfer transactions against the fixed
// ERC-721 contract and extracts results from confirmed receipts.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sethvargo/go-retry"

	"github.com/usattar/mintvault/internal/client/wallet"
	"github.com/usattar/mintvault/internal/common"
	"github.com/usattar/mintvault/internal/logging"
)

// contractABI is the fixed method surface of the minting contract.
const contractABI = `[
  {"type":"function","name":"mintNFT","stateMutability":"nonpayable","inputs":[{"name":"recipient","type":"address"},{"name":"tokenURI","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"}]}
]`

// transferEventSig is topic 0 of the contract's Transfer event.
var transferEventSig = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// MintResult carries what the workflow needs from a confirmed mint.
type MintResult struct {
	TokenID int64
	TxHash  ethcommon.Hash
}

// contractTransactor is the slice of bind.BoundContract used here.
type contractTransactor interface {
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// receiptSource fetches confirmed receipts; satisfied by *ethclient.Client.
type receiptSource interface {
	TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
}

// Client submits transactions through a wallet session and waits for one
// confirmation.
type Client struct {
	contract       contractTransactor
	backend        receiptSource
	wallet         wallet.Wallet
	log            logging.Logger
	confirmTimeout time.Duration
}

// Dial connects to the JSON-RPC endpoint and binds the contract.
func Dial(ctx context.Context, rpcURL, contractAddr string, w wallet.Wallet, confirmTimeout time.Duration, log logging.Logger) (*Client, error) {
	if !ethcommon.IsHexAddress(contractAddr) {
		return nil, fmt.Errorf("invalid contract address %q", contractAddr)
	}

	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}

	bound := bind.NewBoundContract(ethcommon.HexToAddress(contractAddr), parsed, ec, ec, ec)

	return &Client{
		contract:       bound,
		backend:        ec,
		wallet:         w,
		log:            log,
		confirmTimeout: confirmTimeout,
	}, nil
}

// IsValidAddress reports whether s parses as a hex address.
func IsValidAddress(s string) bool {
	return ethcommon.IsHexAddress(s)
}

// SubmitMint signs and submits mintNFT(to, metadataURI). The wallet session
// must be unlocked; the transaction hash comes back as soon as the node
// accepts it, before any confirmation.
func (c *Client) SubmitMint(ctx context.Context, to, metadataURI string) (ethcommon.Hash, error) {
	opts, err := c.wallet.TransactOpts(ctx)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("%w: %w", common.ErrMint, err)
	}

	tx, err := c.contract.Transact(opts, "mintNFT", ethcommon.HexToAddress(to), metadataURI)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("%w: %w", common.ErrMint, err)
	}
	c.log.Info(ctx, "mint submitted", "tx", tx.Hash().Hex())
	return tx.Hash(), nil
}

// WaitMint waits for the confirmation of a previously submitted mint and
// extracts the assigned token id from the receipt.
func (c *Client) WaitMint(ctx context.Context, hash ethcommon.Hash) (*MintResult, error) {
	receipt, err := c.waitMined(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMint, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction reverted", common.ErrMint)
	}

	tokenID, err := TokenIDFromReceipt(receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMint, err)
	}

	return &MintResult{TokenID: tokenID, TxHash: hash}, nil
}

// Mint runs SubmitMint and WaitMint back to back.
func (c *Client) Mint(ctx context.Context, to, metadataURI string) (*MintResult, error) {
	hash, err := c.SubmitMint(ctx, to, metadataURI)
	if err != nil {
		return nil, err
	}
	return c.WaitMint(ctx, hash)
}

// Transfer submits transferFrom(from, to, tokenID) and waits for confirmation.
func (c *Client) Transfer(ctx context.Context, from, to string, tokenID int64) error {
	opts, err := c.wallet.TransactOpts(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransfer, err)
	}

	tx, err := c.contract.Transact(opts, "transferFrom",
		ethcommon.HexToAddress(from), ethcommon.HexToAddress(to), big.NewInt(tokenID))
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransfer, err)
	}
	c.log.Info(ctx, "transfer submitted", "tx", tx.Hash().Hex(), "token_id", tokenID)

	receipt, err := c.waitMined(ctx, tx.Hash())
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransfer, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: transaction reverted", common.ErrTransfer)
	}
	return nil
}

// waitMined polls for the receipt with exponential backoff, bounded by the
// configured confirmation timeout.
func (c *Client) waitMined(ctx context.Context, hash ethcommon.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	b := retry.WithCappedDuration(10*time.Second, retry.NewExponential(time.Second))

	var receipt *types.Receipt
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := c.backend.TransactionReceipt(ctx, hash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return retry.RetryableError(err)
			}
			// transient RPC failures keep the wait alive until the deadline
			return retry.RetryableError(err)
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for confirmation of %s: %w", hash.Hex(), err)
	}
	return receipt, nil
}

// TokenIDFromReceipt extracts the minted token id from the 4th topic of the
// receipt's first log. The contract emits Transfer(0x0, to, tokenId) as its
// first log; any other layout is rejected rather than risking a wrong id.
func TokenIDFromReceipt(receipt *types.Receipt) (int64, error) {
	if len(receipt.Logs) == 0 {
		return 0, errors.New("receipt has no logs")
	}

	first := receipt.Logs[0]
	if len(first.Topics) != 4 || first.Topics[0] != transferEventSig {
		return 0, errors.New("first receipt log is not a Transfer event")
	}

	id := new(big.Int).SetBytes(first.Topics[3].Bytes())
	if !id.IsInt64() {
		return 0, fmt.Errorf("token id %s out of range", id)
	}
	return id.Int64(), nil
}
