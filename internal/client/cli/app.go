package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/usattar/mintvault/internal/client/config"
	"github.com/usattar/mintvault/internal/client/identity"
	"github.com/usattar/mintvault/internal/client/localdb"
	"github.com/usattar/mintvault/internal/client/pinning"
	"github.com/usattar/mintvault/internal/client/repositories/kv"
	"github.com/usattar/mintvault/internal/client/repositories/records"
	"github.com/usattar/mintvault/internal/client/services"
	"github.com/usattar/mintvault/internal/client/wallet"
	"github.com/usattar/mintvault/internal/common"
	"github.com/usattar/mintvault/internal/logging"
)

// disconnected stands in for the chain-facing dependencies until a wallet
// is connected, letting read-only commands work from the start.
type disconnected struct{}

func (disconnected) Transfer(ctx context.Context, from, to string, tokenID int64) error {
	return fmt.Errorf("%w: wallet not connected", common.ErrUnavailable)
}

func (disconnected) Address() ethcommon.Address { return ethcommon.Address{} }

// Mode reflects how the last sign-in succeeded.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// App holds the wired client. The mint and nft services exist only after a
// wallet is connected; commands that need them check first.
type App struct {
	config      *config.Config
	log         logging.Logger
	authService services.AuthService
	publisher   services.MetadataPublisher
	store       records.Store

	mintService services.MintService
	nftService  services.NFTService
	wallet      *wallet.KeystoreWallet

	userEmail string
	mode      Mode
	reader    *bufio.Reader
}

// NewApp opens the local database and wires every service that does not
// need a connected wallet. Each session gets a correlation id on the logger.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	log = log.With("session", uuid.NewString())

	db, err := localdb.Open(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "initializing database", "error", err)
		return nil, err
	}

	store := records.NewStore(kv.NewSQLiteRepository(db), log)

	var pinner pinning.Pinner
	switch c.Backend {
	case config.BackendS3:
		pinner, err = pinning.NewS3Pinner(ctx, pinning.S3Options{
			Region:       c.S3Region,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
	default:
		pinner = pinning.NewPinataClient(c.PinBaseURL, c.PinAPIKey, c.PinAPISecret)
	}
	publisher := pinning.NewPublisher(pinner, c.GatewayBaseURL)

	provider := identity.NewClient(c.IdentityBaseURL, c.IdentityAPIKey)
	authService := services.NewAuthService(provider, db)

	app := &App{
		config:      c,
		log:         log,
		authService: authService,
		publisher:   publisher,
		store:       store,
		reader:      bufio.NewReader(os.Stdin),
	}
	app.nftService = services.NewNFTService(disconnected{}, disconnected{}, store, authService, log)

	authService.OnChange(func(u *identity.User) {
		if u == nil {
			app.userEmail = ""
			log.Info(ctx, "signed out")
			return
		}
		app.userEmail = u.Email
		log.Info(ctx, "signed in", "user_id", u.ID)
	})

	return app, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.authService.CurrentUser() != nil
}

func (a *App) isConnected() bool {
	return a.wallet != nil
}

func (a *App) getStatus() string {
	s := ""
	if a.userEmail != "" {
		s = a.userEmail + " " + string(a.mode)
	}
	if a.isConnected() {
		if s != "" {
			s += " "
		}
		s += shortAddress(a.wallet.Address().Hex())
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// shortAddress renders 0x1234...abcd for prompts and listings.
func shortAddress(hex string) string {
	if len(hex) <= 10 {
		return hex
	}
	return hex[:6] + "..." + hex[len(hex)-4:]
}
