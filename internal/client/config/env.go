package config

import "github.com/dmitrijs2005/blobhost/internal/flagx"

func parseEnv(cfg *Config) {
	flagx.StringFromEnv(&cfg.ServerURL, "BLOBHOST_URL")
	flagx.StringFromEnv(&cfg.UploadPassword, "UPLOAD_PW")
}
