package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/usattar/mintvault/internal/common"
)

// Client is a minimal REST client for a Firebase-style identity toolkit API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	LocalID      string `json:"localId"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email string, password []byte) (*Session, error) {
	return c.post(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp creates a new account.
func (c *Client) SignUp(ctx context.Context, email string, password []byte) (*Session, error) {
	return c.post(ctx, "accounts:signUp", email, password)
}

func (c *Client) post(ctx context.Context, action, email string, password []byte) (*Session, error) {
	payload, err := json.Marshal(credentialsRequest{
		Email:             email,
		Password:          string(password),
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, action, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if er.Error.Message == "" {
			er.Error.Message = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", common.ErrUnauthorized, er.Error.Message)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	return &Session{
		User:         User{ID: ar.LocalID, Email: ar.Email},
		IDToken:      ar.IDToken,
		RefreshToken: ar.RefreshToken,
	}, nil
}
