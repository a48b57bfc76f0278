// Package identity talks to the hosted identity provider. Sign-in and
// sign-up are single REST calls returning an ID token; the token's claims
// carry the opaque subject id every local record is keyed by.
package identity

// User is the authenticated identity as the rest of the client sees it.
type User struct {
	// ID is the provider's opaque subject id. Local records are filtered
	// by this value; it is not an email and not a wallet address.
	ID    string
	Email string
}

// Session is the result of a successful sign-in.
type Session struct {
	User         User
	IDToken      string
	RefreshToken string
}
