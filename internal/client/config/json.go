package config

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/usattar/mintvault/internal/flagx"
)

// Duration lets JSON specify intervals either as strings like "2m" or as
// integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "not set" and leave the corresponding Config field untouched.
type JsonConfig struct {
	DatabaseDSN     string   `json:"database_dsn"`
	RPCEndpoint     string   `json:"rpc_endpoint"`
	ChainID         int64    `json:"chain_id"`
	ContractAddress string   `json:"contract_address"`
	KeystoreDir     string   `json:"keystore_dir"`
	ConfirmTimeout  Duration `json:"confirm_timeout"`
	Backend         string   `json:"storage_backend"`
	PinBaseURL      string   `json:"pin_base_url"`
	PinAPIKey       string   `json:"pin_api_key"`
	PinAPISecret    string   `json:"pin_api_secret"`
	GatewayBaseURL  string   `json:"gateway_base_url"`
	S3Region        string   `json:"s3_region"`
	S3Bucket        string   `json:"s3_bucket"`
	S3BaseEndpoint  string   `json:"s3_base_endpoint"`
	S3AccessKey     string   `json:"s3_access_key"`
	S3SecretKey     string   `json:"s3_secret_key"`
	IdentityBaseURL string   `json:"identity_base_url"`
	IdentityAPIKey  string   `json:"identity_api_key"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. If no file is given, nothing happens. Read or
// unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlayString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlayString(&cfg.RPCEndpoint, jc.RPCEndpoint)
	overlayString(&cfg.ContractAddress, jc.ContractAddress)
	overlayString(&cfg.KeystoreDir, jc.KeystoreDir)
	overlayString(&cfg.PinBaseURL, jc.PinBaseURL)
	overlayString(&cfg.PinAPIKey, jc.PinAPIKey)
	overlayString(&cfg.PinAPISecret, jc.PinAPISecret)
	overlayString(&cfg.GatewayBaseURL, jc.GatewayBaseURL)
	overlayString(&cfg.S3Region, jc.S3Region)
	overlayString(&cfg.S3Bucket, jc.S3Bucket)
	overlayString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlayString(&cfg.S3AccessKey, jc.S3AccessKey)
	overlayString(&cfg.S3SecretKey, jc.S3SecretKey)
	overlayString(&cfg.IdentityBaseURL, jc.IdentityBaseURL)
	overlayString(&cfg.IdentityAPIKey, jc.IdentityAPIKey)

	if jc.ChainID != 0 {
		cfg.ChainID = jc.ChainID
	}
	if jc.ConfirmTimeout.Duration != 0 {
		cfg.ConfirmTimeout = jc.ConfirmTimeout.Duration
	}
	if jc.Backend != "" {
		cfg.Backend = StorageBackend(jc.Backend)
	}
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
