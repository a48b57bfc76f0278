package config

import "time"

// StorageBackend selects which pinning implementation uploads blobs.
type StorageBackend string

const (
	BackendPinata StorageBackend = "pinata"
	BackendS3     StorageBackend = "s3"
)

// Config holds runtime settings for the MintVault CLI.
type Config struct {
	// DatabaseDSN is the SQLite DSN of the local record cache.
	DatabaseDSN string

	// RPCEndpoint is the JSON-RPC URL of the chain node.
	RPCEndpoint string
	// ChainID is the EIP-155 chain id used when signing transactions.
	ChainID int64
	// ContractAddress is the fixed ERC-721 contract the client talks to.
	ContractAddress string
	// KeystoreDir holds the encrypted account keys.
	KeystoreDir string
	// ConfirmTimeout bounds the wait for a transaction receipt.
	ConfirmTimeout time.Duration

	// Pinning service settings.
	Backend        StorageBackend
	PinBaseURL     string
	PinAPIKey      string
	PinAPISecret   string
	GatewayBaseURL string

	// S3-compatible backend settings (used when Backend == BackendS3).
	S3Region       string
	S3Bucket       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	// Identity provider settings.
	IdentityBaseURL string
	IdentityAPIKey  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "mintvault.db"
	c.RPCEndpoint = "http://127.0.0.1:8545"
	c.ChainID = 11155111 // sepolia
	c.KeystoreDir = "keystore"
	c.ConfirmTimeout = 2 * time.Minute
	c.Backend = BackendPinata
	c.PinBaseURL = "https://api.pinata.cloud"
	c.GatewayBaseURL = "https://ipfs.io/ipfs/"
	c.S3Region = "us-east-1"
	c.IdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
