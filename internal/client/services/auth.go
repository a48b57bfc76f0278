// Package services contains application services for the MintVault client.
// This file defines the authentication service: online/offline sign-in,
// registration, the current-session holder, and housekeeping of locally
// cached auth material.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"sync"

	"github.com/usattar/mintvault/internal/client/identity"
	"github.com/usattar/mintvault/internal/client/repositories/kv"
	"github.com/usattar/mintvault/internal/common"
	"github.com/usattar/mintvault/internal/cryptox"
	"github.com/usattar/mintvault/internal/dbx"
)

// IdentityProvider is the slice of the identity REST client used here.
type IdentityProvider interface {
	SignIn(ctx context.Context, email string, password []byte) (*identity.Session, error)
	SignUp(ctx context.Context, email string, password []byte) (*identity.Session, error)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - OnlineLogin: authenticate against the identity provider and refresh
//     the locally cached offline-login material.
//   - OfflineLogin: derive and verify credentials against locally cached
//     data, for use when the provider is unreachable.
//   - Register: create a new account; a successful registration signs in.
//   - CurrentUser: the signed-in user, nil when signed out.
//   - OnChange: subscribe to sign-in/sign-out transitions.
//   - Logout: drop the in-memory session. Cached offline material stays.
//   - ClearOfflineData: wipe locally cached auth material.
type AuthService interface {
	OnlineLogin(ctx context.Context, email string, password []byte) (*identity.User, error)
	OfflineLogin(ctx context.Context, email string, password []byte) (*identity.User, error)
	Register(ctx context.Context, email string, password []byte) (*identity.User, error)
	CurrentUser() *identity.User
	OnChange(fn func(*identity.User))
	Logout()
	ClearOfflineData(ctx context.Context) error
}

// authKeys are the kv keys holding offline-login material. They share the
// kv table with the record collection, so housekeeping deletes them one by
// one instead of clearing the table.
var authKeys = []string{"username", "salt", "verifier", "user_id"}

type authService struct {
	provider IdentityProvider
	db       *sql.DB

	mu        sync.Mutex
	current   *identity.User
	listeners []func(*identity.User)
}

// NewAuthService constructs an AuthService bound to the given identity
// provider and local DB.
func NewAuthService(provider IdentityProvider, db *sql.DB) AuthService {
	return &authService{provider: provider, db: db}
}

func (a *authService) getKVRepo() kv.Repository {
	return kv.NewSQLiteRepository(a.db)
}

// OnlineLogin authenticates against the identity provider, resolves the
// user from the issued token, and refreshes the offline-login cache.
func (a *authService) OnlineLogin(ctx context.Context, email string, password []byte) (*identity.User, error) {
	session, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := sessionUser(session)
	if err := a.saveOfflineData(ctx, email, password, user.ID); err != nil {
		return nil, fmt.Errorf("offline data saving error: %w", err)
	}

	a.setCurrent(user)
	return user, nil
}

// OfflineLogin derives a master key from (password, salt) stored locally and
// verifies it against the cached verifier. If local data is missing, returns
// common.ErrLocalDataNotAvailable; if verification fails, common.ErrUnauthorized.
func (a *authService) OfflineLogin(ctx context.Context, email string, password []byte) (*identity.User, error) {
	repo := a.getKVRepo()

	savedUsername, err := repo.Get(ctx, "username")
	if err != nil {
		return nil, err
	}
	if savedUsername == nil {
		return nil, common.ErrLocalDataNotAvailable
	}
	if string(savedUsername) != email {
		return nil, common.ErrUnauthorized
	}

	savedSalt, err := repo.Get(ctx, "salt")
	if err != nil {
		return nil, err
	}
	savedVerifier, err := repo.Get(ctx, "verifier")
	if err != nil {
		return nil, err
	}
	savedUserID, err := repo.Get(ctx, "user_id")
	if err != nil {
		return nil, err
	}
	if savedSalt == nil || savedVerifier == nil || savedUserID == nil {
		return nil, common.ErrLocalDataNotAvailable
	}

	keyCandidate := cryptox.DeriveMasterKey(password, savedSalt)
	verifierCandidate := cryptox.MakeVerifier(keyCandidate)

	if subtle.ConstantTimeCompare(savedVerifier, verifierCandidate) == 0 {
		return nil, common.ErrUnauthorized
	}

	user := &identity.User{ID: string(savedUserID), Email: email}
	a.setCurrent(user)
	return user, nil
}

// Register creates a new account with the identity provider. The provider
// signs the new account in, so the session and offline cache are set the
// same way OnlineLogin sets them.
func (a *authService) Register(ctx context.Context, email string, password []byte) (*identity.User, error) {
	session, err := a.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := sessionUser(session)
	if err := a.saveOfflineData(ctx, email, password, user.ID); err != nil {
		return nil, fmt.Errorf("offline data saving error: %w", err)
	}

	a.setCurrent(user)
	return user, nil
}

// saveOfflineData persists the material required for offline login in a
// single transaction: username, a fresh salt, the derived verifier, and the
// provider-issued user id.
func (a *authService) saveOfflineData(ctx context.Context, email string, password []byte, userID string) error {
	salt := common.GenerateRandByteArray(32)
	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, "username", []byte(email)); err != nil {
			return err
		}
		if err := repo.Set(ctx, "salt", salt); err != nil {
			return err
		}
		if err := repo.Set(ctx, "verifier", verifier); err != nil {
			return err
		}
		return repo.Set(ctx, "user_id", []byte(userID))
	})
}

func (a *authService) CurrentUser() *identity.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// OnChange registers fn to be called with the new user on every sign-in and
// with nil on sign-out. Callbacks run synchronously on the mutating call.
func (a *authService) OnChange(fn func(*identity.User)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

func (a *authService) Logout() {
	a.setCurrent(nil)
}

// ClearOfflineData wipes the cached auth material, leaving the record
// collection untouched.
func (a *authService) ClearOfflineData(ctx context.Context) error {
	repo := a.getKVRepo()
	for _, key := range authKeys {
		if err := repo.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (a *authService) setCurrent(user *identity.User) {
	a.mu.Lock()
	a.current = user
	listeners := make([]func(*identity.User), len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}

// sessionUser resolves the session's user, preferring the token claims over
// the response fields when the token parses.
func sessionUser(session *identity.Session) *identity.User {
	if parsed, err := identity.ParseIDToken(session.IDToken); err == nil {
		if parsed.Email == "" {
			parsed.Email = session.User.Email
		}
		return parsed
	}
	u := session.User
	return &u
}
