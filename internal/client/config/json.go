package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/blobhost/internal/flagx"
	"github.com/dmitrijs2005/blobhost/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	Timeout        timex.Duration `json:"timeout"`
	UploadPassword string         `json:"upload_password"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c or -config. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.Timeout.Duration != 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.UploadPassword != "" {
		cfg.UploadPassword = jc.UploadPassword
	}
}
