package records

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usattar/mintvault/internal/client/models"
	"github.com/usattar/mintvault/internal/client/repositories/kv"
	"github.com/usattar/mintvault/internal/logging"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) (Store, kv.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", "file:recstore?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	repo := kv.NewSQLiteRepository(db)
	return NewStore(repo, logging.NewText(&bytes.Buffer{}, slog.LevelDebug)), repo
}

func rec(id, user string, tokenID int64) models.NFTRecord {
	return models.NFTRecord{
		ID:            id,
		UserID:        user,
		WalletAddress: "0xabc",
		TokenID:       tokenID,
		TokenURI:      "https://ipfs.io/ipfs/Qm/meta.json",
		Name:          "A",
		Description:   "B",
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		FileType:      "image/png",
	}
}

func TestAppendList_RoundTrip(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	r := rec("1", "u1", 1000)
	require.NoError(t, s.Append(ctx, r))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r, got[0])
}

func TestListFor_FiltersByUser(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, rec("1", "u1", 1)))
	require.NoError(t, s.Append(ctx, rec("2", "u2", 2)))
	require.NoError(t, s.Append(ctx, rec("3", "u1", 3)))

	got, err := s.ListFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "u1", r.UserID)
	}
	// insertion order preserved
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestListFor_NeverLeaksOtherUsers(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, rec("1", "u2", 1)))

	got, err := s.ListFor(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRemove(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, rec("1", "u1", 1)))
	require.NoError(t, s.Append(ctx, rec("2", "u1", 2)))

	require.NoError(t, s.Remove(ctx, "1"))
	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	// removing an absent id is a no-op
	require.NoError(t, s.Remove(ctx, "absent"))
	got, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpdate_AbsentIDIsNoop(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, rec("1", "u1", 1)))
	require.NoError(t, s.Update(ctx, "absent", func(r *models.NFTRecord) {
		r.Name = "changed"
	}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", got[0].Name)
}

func TestMarkTransferred(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, rec("1", "u1", 1000)))
	require.NoError(t, s.Append(ctx, rec("2", "u2", 1000))) // same token id, other user

	n, err := s.MarkTransferred(ctx, 1000, "u1", "0xdef")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.List(ctx)
	require.NoError(t, err)
	for _, r := range got {
		if r.ID == "1" {
			assert.True(t, r.Transferred)
			assert.Equal(t, "0xdef", r.TransferredTo)
		} else {
			assert.False(t, r.Transferred)
			assert.Empty(t, r.TransferredTo)
		}
	}
}

func TestLoad_MalformedCollectionFailsClosed(t *testing.T) {
	s, repo := setupStore(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "nfts", []byte(`{not json]`)))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// the next write replaces the corrupt blob
	require.NoError(t, s.Append(ctx, rec("1", "u1", 1)))
	got, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
