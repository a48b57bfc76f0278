package services

import (
	"context"
	"fmt"

	"github.com/usattar/mintvault/internal/client/chain"
	"github.com/usattar/mintvault/internal/client/models"
	"github.com/usattar/mintvault/internal/client/repositories/records"
	"github.com/usattar/mintvault/internal/common"
	"github.com/usattar/mintvault/internal/logging"
)

// ChainTransferrer is the slice of the chain client used for transfers.
type ChainTransferrer interface {
	Transfer(ctx context.Context, from, to string, tokenID int64) error
}

// NFTService manages the signed-in user's minted tokens.
type NFTService interface {
	// List returns the current user's records, insertion order preserved.
	List(ctx context.Context) ([]models.NFTRecord, error)

	// Transfer moves tokenID to the recipient address on chain, then marks
	// the matching local records as transferred. The chain call comes
	// first; a failed transfer leaves the records untouched.
	Transfer(ctx context.Context, tokenID int64, to string) error

	// Remove deletes a record locally. The token itself is not burned and
	// stays on chain.
	Remove(ctx context.Context, id string) error
}

type nftService struct {
	chain  ChainTransferrer
	wallet AddressProvider
	store  records.Store
	auth   AuthService
	log    logging.Logger
}

func NewNFTService(chain ChainTransferrer, wallet AddressProvider, store records.Store,
	auth AuthService, log logging.Logger) NFTService {
	return &nftService{chain: chain, wallet: wallet, store: store, auth: auth, log: log}
}

func (s *nftService) List(ctx context.Context) ([]models.NFTRecord, error) {
	user := s.auth.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("%w: not signed in", common.ErrUnauthorized)
	}
	return s.store.ListFor(ctx, user.ID)
}

func (s *nftService) Transfer(ctx context.Context, tokenID int64, to string) error {
	user := s.auth.CurrentUser()
	if user == nil {
		return fmt.Errorf("%w: not signed in", common.ErrUnauthorized)
	}
	if !chain.IsValidAddress(to) {
		return fmt.Errorf("%w: invalid recipient address %q", common.ErrValidation, to)
	}

	from := s.wallet.Address().Hex()
	if err := s.chain.Transfer(ctx, from, to, tokenID); err != nil {
		return err
	}

	matched, err := s.store.MarkTransferred(ctx, tokenID, user.ID, to)
	if err != nil {
		return fmt.Errorf("transferred token %d but failed to update the local record: %w", tokenID, err)
	}
	if matched == 0 {
		s.log.Warn(ctx, "transferred token has no local record", "token_id", tokenID)
	}
	return nil
}

func (s *nftService) Remove(ctx context.Context, id string) error {
	if s.auth.CurrentUser() == nil {
		return fmt.Errorf("%w: not signed in", common.ErrUnauthorized)
	}
	return s.store.Remove(ctx, id)
}
