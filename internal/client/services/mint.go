package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/usattar/mintvault/internal/client/chain"
	"github.com/usattar/mintvault/internal/client/models"
	"github.com/usattar/mintvault/internal/client/pinning"
	"github.com/usattar/mintvault/internal/client/repositories/records"
	"github.com/usattar/mintvault/internal/common"
	"github.com/usattar/mintvault/internal/logging"
)

// Stage is one step of the mint workflow. Stages advance strictly forward;
// a failed mint stops at whatever stage it reached.
type Stage int

const (
	StageValidating Stage = iota + 1
	StagePublishing
	StageAwaitingWallet
	StageAwaitingConfirmation
	StagePersisting
	StageDone
)

// Message returns the user-facing progress line for the stage.
func (s Stage) Message() string {
	switch s {
	case StageValidating:
		return "Validating..."
	case StagePublishing:
		return "Uploading file to IPFS..."
	case StageAwaitingWallet:
		return "Minting NFT..."
	case StageAwaitingConfirmation:
		return "Waiting for transaction confirmation..."
	case StagePersisting:
		return "Saving record..."
	case StageDone:
		return "NFT Minted Successfully!"
	default:
		return ""
	}
}

// StatusFunc receives stage transitions during a mint. May be nil.
type StatusFunc func(stage Stage, message string)

// MetadataPublisher is the slice of the pinning publisher used here.
type MetadataPublisher interface {
	Publish(ctx context.Context, asset pinning.Asset, name, description string) (string, error)
}

// ChainMinter is the slice of the chain client used here. Submit and wait
// are separate so the workflow can distinguish the wallet-approval phase
// from the confirmation wait.
type ChainMinter interface {
	SubmitMint(ctx context.Context, to, metadataURI string) (ethcommon.Hash, error)
	WaitMint(ctx context.Context, hash ethcommon.Hash) (*chain.MintResult, error)
}

// AddressProvider yields the active wallet address minted tokens go to.
type AddressProvider interface {
	Address() ethcommon.Address
}

// MintRequest carries everything a mint needs besides the session.
type MintRequest struct {
	Asset       pinning.Asset
	Name        string
	Description string
}

// MintService runs the end-to-end mint workflow: validate, publish the
// asset and its metadata, submit the mint, wait for confirmation, persist
// the local record.
type MintService interface {
	Mint(ctx context.Context, req MintRequest, status StatusFunc) (*models.NFTRecord, error)

	// OnMinted registers fn to be called with every successfully recorded
	// mint. Callbacks run synchronously before Mint returns.
	OnMinted(fn func(models.NFTRecord))
}

type mintService struct {
	publisher MetadataPublisher
	minter    ChainMinter
	wallet    AddressProvider
	store     records.Store
	auth      AuthService
	log       logging.Logger
	now       func() time.Time

	// mintMu serializes mints within the process; concurrent processes
	// sharing a store still race last-writer-wins.
	mintMu    sync.Mutex
	listeners []func(models.NFTRecord)
}

func NewMintService(publisher MetadataPublisher, minter ChainMinter, wallet AddressProvider,
	store records.Store, auth AuthService, log logging.Logger) MintService {
	return &mintService{
		publisher: publisher,
		minter:    minter,
		wallet:    wallet,
		store:     store,
		auth:      auth,
		log:       log,
		now:       time.Now,
	}
}

func (s *mintService) OnMinted(fn func(models.NFTRecord)) {
	s.mintMu.Lock()
	defer s.mintMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Mint runs the workflow. On a persistence failure after a confirmed mint
// the token exists on chain but has no local record; the record is still
// returned alongside the error so the caller can surface the token id.
func (s *mintService) Mint(ctx context.Context, req MintRequest, status StatusFunc) (*models.NFTRecord, error) {
	s.mintMu.Lock()
	defer s.mintMu.Unlock()

	emit := func(stage Stage) {
		if status != nil {
			status(stage, stage.Message())
		}
	}

	emit(StageValidating)
	user := s.auth.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("%w: not signed in", common.ErrUnauthorized)
	}
	if err := validateMintRequest(req); err != nil {
		return nil, err
	}

	emit(StagePublishing)
	metadataURI, err := s.publisher.Publish(ctx, req.Asset, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	to := s.wallet.Address().Hex()

	emit(StageAwaitingWallet)
	hash, err := s.minter.SubmitMint(ctx, to, metadataURI)
	if err != nil {
		return nil, err
	}

	emit(StageAwaitingConfirmation)
	result, err := s.minter.WaitMint(ctx, hash)
	if err != nil {
		return nil, err
	}

	emit(StagePersisting)
	rec := models.NFTRecord{
		ID:            models.NewRecordID(),
		UserID:        user.ID,
		WalletAddress: to,
		TokenID:       result.TokenID,
		TokenURI:      metadataURI,
		Name:          req.Name,
		Description:   req.Description,
		CreatedAt:     s.now(),
		FileType:      req.Asset.MIME(),
		FilePreview:   models.PreviewFor(req.Asset.MIME(), req.Asset.Data),
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Error(ctx, "minted token has no local record", "token_id", result.TokenID, "error", err)
		return &rec, fmt.Errorf("minted token %d but failed to record it locally: %w", result.TokenID, err)
	}

	emit(StageDone)
	s.log.Info(ctx, "mint complete", "token_id", result.TokenID, "tx", result.TxHash.Hex())

	for _, fn := range s.listeners {
		fn(rec)
	}
	return &rec, nil
}

func validateMintRequest(req MintRequest) error {
	if len(req.Asset.Data) == 0 {
		return fmt.Errorf("%w: asset file is empty", common.ErrValidation)
	}
	if strings.TrimSpace(req.Asset.FileName) == "" {
		return fmt.Errorf("%w: asset file name is required", common.ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description is required", common.ErrValidation)
	}
	return nil
}
