package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	pinFilePath = "/pinning/pinFileToIPFS"
	pinJSONPath = "/pinning/pinJSONToIPFS"
)

// PinataClient talks to a Pinata-style pinning API: a multipart file-pin
// endpoint and a JSON-pin endpoint, both authenticated with two static
// credential headers.
type PinataClient struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
}

func NewPinataClient(baseURL, apiKey, apiSecret string) *PinataClient {
	return &PinataClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

// pinResponse is the interesting part of both endpoints' response body.
type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func (c *PinataClient) PinFile(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	// v0 CIDs keep URIs compatible with records minted by older clients.
	if err := w.WriteField("pinataOptions", `{"cidVersion":0}`); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pinFilePath, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req)
}

func (c *PinataClient) PinJSON(ctx context.Context, v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pinJSONPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *PinataClient) do(req *http.Request) (string, error) {
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("pin failed: %s: %s", resp.Status, bytes.TrimSpace(b))
	}

	var pr pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decode pin response: %w", err)
	}
	if pr.IpfsHash == "" {
		return "", fmt.Errorf("pin response has no content identifier")
	}
	return pr.IpfsHash, nil
}
