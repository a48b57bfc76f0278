// Package config loads runtime configuration for the MintVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-r string   JSON-RPC endpoint of the chain node
//	-d string   SQLite DSN of the local record cache
//	-k string   keystore directory
//	-t int      confirmation timeout (seconds)
//
// # JSON schema
//
// Durations can be either strings like "2m" or integer nanoseconds:
//
//	{
//	  "rpc_endpoint": "https://sepolia.example.org",
//	  "chain_id": 11155111,
//	  "contract_address": "0x...",
//	  "pin_api_key": "...",
//	  "pin_api_secret": "...",
//	  "confirm_timeout": "2m"
//	}
//
// Credentials for the pinning service and identity provider come from the
// JSON file only; there are no flags for secrets.
package config
