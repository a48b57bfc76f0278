// Package records persists the local NFT record collection behind the kv
// port. The whole collection is one JSON array under a single key, read,
// modified in memory, and written back on every mutation. The layer is
// local and single-writer by assumption; concurrent processes race
// last-writer-wins, which is accepted.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/usattar/mintvault/internal/client/models"
	"github.com/usattar/mintvault/internal/client/repositories/kv"
	"github.com/usattar/mintvault/internal/common"
	"github.com/usattar/mintvault/internal/logging"
)

// storeKey is the well-known key holding the serialized collection.
const storeKey = "nfts"

// Store is the local record cache used by the mint and management workflows.
type Store interface {
	// List returns every record, all users, in insertion order.
	List(ctx context.Context) ([]models.NFTRecord, error)

	// ListFor returns only records belonging to userID, insertion order
	// preserved. Every read path used for display must go through this
	// filter; the underlying collection is not partitioned per user.
	ListFor(ctx context.Context, userID string) ([]models.NFTRecord, error)

	// Append adds a record to the end of the collection.
	Append(ctx context.Context, rec models.NFTRecord) error

	// Update applies mutate to the record with the given id. Absent id is
	// a no-op.
	Update(ctx context.Context, id string, mutate func(*models.NFTRecord)) error

	// Remove deletes the record with the given id. Absent id is a no-op.
	Remove(ctx context.Context, id string) error

	// MarkTransferred sets transferred/transferredTo on every record
	// matching (tokenID, userID) and reports how many matched. The match
	// key is the pair, not the record id, because callers supply the
	// token id from display context.
	MarkTransferred(ctx context.Context, tokenID int64, userID, to string) (int, error)
}

type kvStore struct {
	kv  kv.Repository
	log logging.Logger
}

// NewStore returns a Store over the given key-value repository.
func NewStore(repo kv.Repository, log logging.Logger) Store {
	return &kvStore{kv: repo, log: log}
}

// load reads the whole collection. A missing key is an empty collection.
// Malformed JSON fails closed: the store behaves as empty rather than
// crashing, and the condition is logged. The next write replaces the
// corrupt blob.
func (s *kvStore) load(ctx context.Context) ([]models.NFTRecord, error) {
	raw, err := s.kv.Get(ctx, storeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageRead, err)
	}
	if len(raw) == 0 {
		return []models.NFTRecord{}, nil
	}

	var recs []models.NFTRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		s.log.Warn(ctx, "record collection is malformed, treating as empty", "error", err)
		return []models.NFTRecord{}, nil
	}
	return recs, nil
}

func (s *kvStore) save(ctx context.Context, recs []models.NFTRecord) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Set(ctx, storeKey, raw); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

func (s *kvStore) List(ctx context.Context) ([]models.NFTRecord, error) {
	return s.load(ctx)
}

func (s *kvStore) ListFor(ctx context.Context, userID string) ([]models.NFTRecord, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.NFTRecord, 0, len(all))
	for _, r := range all {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *kvStore) Append(ctx context.Context, rec models.NFTRecord) error {
	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(all, rec))
}

func (s *kvStore) Update(ctx context.Context, id string, mutate func(*models.NFTRecord)) error {
	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	changed := false
	for i := range all {
		if all[i].ID == id {
			mutate(&all[i])
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(ctx, all)
}

func (s *kvStore) Remove(ctx context.Context, id string) error {
	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := all[:0]
	removed := false
	for _, r := range all {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return nil
	}
	return s.save(ctx, kept)
}

func (s *kvStore) MarkTransferred(ctx context.Context, tokenID int64, userID, to string) (int, error) {
	all, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	matched := 0
	for i := range all {
		if all[i].TokenID == tokenID && all[i].UserID == userID {
			all[i].Transferred = true
			all[i].TransferredTo = to
			matched++
		}
	}
	if matched == 0 {
		return 0, nil
	}
	return matched, s.save(ctx, all)
}
