// Package models defines client-side data models used by the MintVault CLI.
package models

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NFTRecord is the locally cached view of one minted token. The chain is the
// source of truth for ownership; this record only mirrors what this client
// did. JSON tags match the collection layout persisted under the "nfts" key.
type NFTRecord struct {
	// ID is a locally generated, time-based unique identifier.
	ID string `json:"id"`

	// UserID is the opaque identity-provider subject id of the minter.
	UserID string `json:"userId"`

	// WalletAddress is the wallet active at mint time.
	WalletAddress string `json:"walletAddress"`

	// TokenID is extracted from the mint transaction receipt. Set once.
	TokenID int64 `json:"tokenId"`

	// TokenURI resolves to the metadata document.
	TokenURI string `json:"tokenURI"`

	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	// FileType is the MIME type of the original asset.
	FileType string `json:"fileType"`

	// FilePreview is a small inline preview (data URI) or a sentinel icon
	// path. Presentation only, never authoritative.
	FilePreview string `json:"filePreview,omitempty"`

	// Transferred is set only by a successful transfer; TransferredTo is
	// present exactly when Transferred is true.
	Transferred   bool   `json:"transferred"`
	TransferredTo string `json:"transferredTo,omitempty"`
}

// NewRecordID returns a time-based record id. Nanosecond resolution keeps
// ids unique within a process.
func NewRecordID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// previewLimit caps how many asset bytes get inlined into a record preview.
const previewLimit = 64 * 1024

// PreviewSentinel is stored for assets that cannot be previewed inline.
const PreviewSentinel = "/file-icon.png"

// PreviewFor builds the FilePreview value for an asset: a data URI for small
// images, the generic sentinel for everything else.
func PreviewFor(fileType string, data []byte) string {
	if !strings.HasPrefix(fileType, "image/") || len(data) > previewLimit {
		return PreviewSentinel
	}
	return fmt.Sprintf("data:%s;base64,%s", fileType, base64.StdEncoding.EncodeToString(data))
}
