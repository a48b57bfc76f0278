package pinning

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/usattar/mintvault/internal/common"
)

// Attribute is one entry of a metadata document's attribute list.
type Attribute struct {
	DisplayType string `json:"display_type,omitempty"`
	TraitType   string `json:"trait_type"`
	Value       any    `json:"value"`
}

// Document is the token metadata a tokenURI resolves to.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Publisher uploads an asset and its derived metadata document, returning
// the metadata URI to mint against.
type Publisher struct {
	pinner  Pinner
	gateway string
	now     func() time.Time
}

func NewPublisher(pinner Pinner, gatewayBaseURL string) *Publisher {
	return &Publisher{pinner: pinner, gateway: gatewayBaseURL, now: time.Now}
}

// Publish pins the asset, builds the metadata document referencing it, pins
// that too, and returns the metadata URI. There is no retry: the first
// failure aborts and the upstream message is surfaced. A pinned asset whose
// metadata upload then fails stays pinned; it is harmless and not tracked.
func (p *Publisher) Publish(ctx context.Context, asset Asset, name, description string) (string, error) {
	cid, err := p.pinner.PinFile(ctx, asset.FileName, asset.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrPublish, err)
	}
	assetURI := p.gateway + cid

	doc := p.buildDocument(asset, name, description, assetURI)

	metaCID, err := p.pinner.PinJSON(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrPublish, err)
	}
	return p.gateway + metaCID, nil
}

func (p *Publisher) buildDocument(asset Asset, name, description, assetURI string) Document {
	sizeKB := int64(math.Round(float64(len(asset.Data)) / 1024))
	return Document{
		Name:        name,
		Description: description,
		Image:       assetURI,
		Attributes: []Attribute{
			{TraitType: "File Type", Value: asset.MIME()},
			{TraitType: "File Size", Value: fmt.Sprintf("%d KB", sizeKB)},
			{DisplayType: "date", TraitType: "Created", Value: p.now().Unix()},
		},
	}
}
