package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/usattar/mintvault/internal/client/chain"
	"github.com/usattar/mintvault/internal/client/identity"
	"github.com/usattar/mintvault/internal/client/models"
	"github.com/usattar/mintvault/internal/client/pinning"
	"github.com/usattar/mintvault/internal/client/repositories/kv"
	"github.com/usattar/mintvault/internal/client/repositories/records"
	"github.com/usattar/mintvault/internal/common"
	"github.com/usattar/mintvault/internal/logging"
)

// ---- fakes ----

type fakeAuth struct {
	User *identity.User
}

func (f *fakeAuth) OnlineLogin(ctx context.Context, email string, password []byte) (*identity.User, error) {
	return f.User, nil
}
func (f *fakeAuth) OfflineLogin(ctx context.Context, email string, password []byte) (*identity.User, error) {
	return f.User, nil
}
func (f *fakeAuth) Register(ctx context.Context, email string, password []byte) (*identity.User, error) {
	return f.User, nil
}
func (f *fakeAuth) CurrentUser() *identity.User          { return f.User }
func (f *fakeAuth) OnChange(fn func(*identity.User))     {}
func (f *fakeAuth) Logout()                              { f.User = nil }
func (f *fakeAuth) ClearOfflineData(ctx context.Context) error { return nil }

type fakePublisher struct {
	URI string
	Err error

	Called    bool
	LastAsset pinning.Asset
	LastName  string
}

func (f *fakePublisher) Publish(ctx context.Context, asset pinning.Asset, name, description string) (string, error) {
	f.Called = true
	f.LastAsset = asset
	f.LastName = name
	return f.URI, f.Err
}

type fakeMinter struct {
	Hash      ethcommon.Hash
	SubmitErr error
	Result    *chain.MintResult
	WaitErr   error

	SubmitCalled bool
	LastTo       string
	LastURI      string
	LastWaitHash ethcommon.Hash
}

func (f *fakeMinter) SubmitMint(ctx context.Context, to, metadataURI string) (ethcommon.Hash, error) {
	f.SubmitCalled = true
	f.LastTo = to
	f.LastURI = metadataURI
	return f.Hash, f.SubmitErr
}

func (f *fakeMinter) WaitMint(ctx context.Context, hash ethcommon.Hash) (*chain.MintResult, error) {
	f.LastWaitHash = hash
	return f.Result, f.WaitErr
}

type fakeAddr struct {
	Addr ethcommon.Address
}

func (f *fakeAddr) Address() ethcommon.Address { return f.Addr }

func testLogger() logging.Logger {
	return logging.NewText(io.Discard, slog.LevelError)
}

func setupStore(t *testing.T) records.Store {
	t.Helper()
	db := setupDB(t)
	return records.NewStore(kv.NewSQLiteRepository(db), testLogger())
}

func testRequest() MintRequest {
	return MintRequest{
		Asset:       pinning.Asset{Data: []byte("png-bytes"), FileName: "art.png", ContentType: "image/png"},
		Name:        "Sunrise",
		Description: "First light",
	}
}

// ---- TESTS ----

func TestMint_Success(t *testing.T) {
	store := setupStore(t)
	pub := &fakePublisher{URI: "https://ipfs.io/ipfs/QmMeta"}
	hash := ethcommon.HexToHash("0xabc")
	minter := &fakeMinter{Hash: hash, Result: &chain.MintResult{TokenID: 1000, TxHash: hash}}
	addr := &fakeAddr{Addr: ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")}
	auth := &fakeAuth{User: &identity.User{ID: "uid-1", Email: "user@example.com"}}

	svc := NewMintService(pub, minter, addr, store, auth, testLogger())

	var minted []models.NFTRecord
	svc.OnMinted(func(r models.NFTRecord) { minted = append(minted, r) })

	var stages []Stage
	rec, err := svc.Mint(context.Background(), testRequest(), func(stage Stage, message string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)

	require.Equal(t, int64(1000), rec.TokenID)
	require.Equal(t, "uid-1", rec.UserID)
	require.Equal(t, addr.Addr.Hex(), rec.WalletAddress)
	require.Equal(t, "https://ipfs.io/ipfs/QmMeta", rec.TokenURI)
	require.Equal(t, "Sunrise", rec.Name)
	require.Equal(t, "image/png", rec.FileType)
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.Transferred)

	require.Equal(t, []Stage{
		StageValidating, StagePublishing, StageAwaitingWallet,
		StageAwaitingConfirmation, StagePersisting, StageDone,
	}, stages)

	require.Equal(t, addr.Addr.Hex(), minter.LastTo)
	require.Equal(t, "https://ipfs.io/ipfs/QmMeta", minter.LastURI)
	require.Equal(t, hash, minter.LastWaitHash)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, rec.ID, all[0].ID)

	require.Len(t, minted, 1)
	require.Equal(t, rec.ID, minted[0].ID)
}

func TestMint_NotSignedIn(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewMintService(pub, &fakeMinter{}, &fakeAddr{}, setupStore(t), &fakeAuth{}, testLogger())

	_, err := svc.Mint(context.Background(), testRequest(), nil)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.False(t, pub.Called)
}

func TestMint_Validation(t *testing.T) {
	auth := &fakeAuth{User: &identity.User{ID: "uid-1"}}
	pub := &fakePublisher{}
	svc := NewMintService(pub, &fakeMinter{}, &fakeAddr{}, setupStore(t), auth, testLogger())

	tests := []struct {
		name   string
		mutate func(*MintRequest)
	}{
		{"empty asset", func(r *MintRequest) { r.Asset.Data = nil }},
		{"missing file name", func(r *MintRequest) { r.Asset.FileName = "  " }},
		{"missing name", func(r *MintRequest) { r.Name = "" }},
		{"missing description", func(r *MintRequest) { r.Description = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)
			_, err := svc.Mint(context.Background(), req, nil)
			require.ErrorIs(t, err, common.ErrValidation)
		})
	}
	require.False(t, pub.Called)
}

func TestMint_PublishFailure_NoChainCall(t *testing.T) {
	store := setupStore(t)
	pub := &fakePublisher{Err: errors.New("pin rejected")}
	minter := &fakeMinter{}
	auth := &fakeAuth{User: &identity.User{ID: "uid-1"}}
	svc := NewMintService(pub, minter, &fakeAddr{}, store, auth, testLogger())

	_, err := svc.Mint(context.Background(), testRequest(), nil)
	require.Error(t, err)
	require.False(t, minter.SubmitCalled)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestMint_WaitFailure_NoRecord(t *testing.T) {
	store := setupStore(t)
	pub := &fakePublisher{URI: "https://ipfs.io/ipfs/QmMeta"}
	minter := &fakeMinter{WaitErr: errors.New("transaction reverted")}
	auth := &fakeAuth{User: &identity.User{ID: "uid-1"}}
	svc := NewMintService(pub, minter, &fakeAddr{}, store, auth, testLogger())

	_, err := svc.Mint(context.Background(), testRequest(), nil)
	require.Error(t, err)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

// failingStore rejects appends; everything else is empty.
type failingStore struct{}

func (failingStore) List(ctx context.Context) ([]models.NFTRecord, error) { return nil, nil }
func (failingStore) ListFor(ctx context.Context, userID string) ([]models.NFTRecord, error) {
	return nil, nil
}
func (failingStore) Append(ctx context.Context, rec models.NFTRecord) error {
	return errors.New("disk full")
}
func (failingStore) Update(ctx context.Context, id string, mutate func(*models.NFTRecord)) error {
	return nil
}
func (failingStore) Remove(ctx context.Context, id string) error { return nil }
func (failingStore) MarkTransferred(ctx context.Context, tokenID int64, userID, to string) (int, error) {
	return 0, nil
}

func TestMint_PersistFailure_ReturnsRecordAndError(t *testing.T) {
	pub := &fakePublisher{URI: "https://ipfs.io/ipfs/QmMeta"}
	minter := &fakeMinter{Result: &chain.MintResult{TokenID: 7}}
	auth := &fakeAuth{User: &identity.User{ID: "uid-1"}}
	svc := NewMintService(pub, minter, &fakeAddr{}, failingStore{}, auth, testLogger())

	rec, err := svc.Mint(context.Background(), testRequest(), nil)
	require.Error(t, err)
	require.NotNil(t, rec)
	require.Equal(t, int64(7), rec.TokenID)
}
