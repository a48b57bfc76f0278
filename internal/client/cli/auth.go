package cli

import (
	"context"
	"errors"
	"os"

	"github.com/usattar/mintvault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email and password and attempts to create
// a new account with the identity provider. A successful registration signs
// the new account in. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Register(ctx, email, password); err != nil {
		printlnFn("Registration failed:", err)
		return err
	}

	a.mode = ModeOnline
	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and tries to authenticate.
//
// The method first attempts an online login. If the identity provider is
// unreachable (errors.Is(err, common.ErrUnavailable)), it falls back to
// offline login against locally cached material. Offline sessions can list
// records but cannot mint or transfer. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.authService.OnlineLogin(ctx, email, password)
	if err == nil {
		a.mode = ModeOnline
		printlnFn("Login successful")
		return nil
	}

	if !errors.Is(err, common.ErrUnavailable) {
		printlnFn("Login failed:", err)
		return err
	}

	printlnFn("Identity provider unavailable, trying offline login...")
	if _, err := a.authService.OfflineLogin(ctx, email, password); err != nil {
		printlnFn("Offline login failed:", err)
		return err
	}

	a.mode = ModeOffline
	printlnFn("Offline login successful")
	return nil
}

// Logout drops the in-memory session. Cached offline-login material stays
// so the user can sign back in without the identity provider.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout()
	a.mode = ""
	printlnFn("Logged out")
	return nil
}
