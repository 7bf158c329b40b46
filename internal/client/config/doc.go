// Package config loads runtime configuration for the inspector CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the inspection API
//	-t string   bearer token returned by "login"
//	-w int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://inspections.example.com",
//	  "request_timeout": "30s"
//	}
package config
