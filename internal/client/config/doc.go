// Package config loads runtime configuration for the blobhost CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables BLOBHOST_URL and UPLOAD_PW.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the blobhost server
//	-t int      request timeout (seconds)
//	-p string   upload password; prompted for when empty
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "timeout": "30s",
//	  "upload_password": "changeme"
//	}
package config
