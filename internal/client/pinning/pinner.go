// Package pinning uploads asset and metadata blobs to content-addressed
// storage and builds the token metadata document.
package pinning

import "context"

// Asset is the user-supplied blob to be minted.
type Asset struct {
	Data        []byte
	FileName    string
	ContentType string
}

// MIME returns the asset content type, defaulting to application/octet-stream.
func (a Asset) MIME() string {
	if a.ContentType == "" {
		return "application/octet-stream"
	}
	return a.ContentType
}

// Pinner pins blobs to a storage network and returns their content
// identifiers. A retrieval URI is the configured gateway base plus the
// identifier.
type Pinner interface {
	// PinFile pins raw bytes under the given file name.
	PinFile(ctx context.Context, name string, data []byte) (string, error)

	// PinJSON marshals v and pins the resulting JSON document.
	PinJSON(ctx context.Context, v any) (string, error)
}
