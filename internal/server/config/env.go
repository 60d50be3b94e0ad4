package config

import "github.com/dmitrijs2005/blobhost/internal/flagx"

// parseEnv overlays environment variables. BIND, UPLOAD_PW and CHUNKS_SIZE
// keep the names earlier deployments used. Malformed numbers panic.
func parseEnv(config *Config) {
	flagx.StringFromEnv(&config.BindAddr, "BIND")
	flagx.StringFromEnv(&config.MetricsAddr, "METRICS_BIND")
	flagx.StringFromEnv(&config.UploadPassword, "UPLOAD_PW")
	flagx.StringFromEnv(&config.StoreBackend, "STORE")
	flagx.StringFromEnv(&config.DatabaseDSN, "DATABASE_DSN")
	flagx.StringFromEnv(&config.RedisAddr, "REDIS_ADDR")
	flagx.StringFromEnv(&config.RedisPassword, "REDIS_PASSWORD")
	flagx.StringFromEnv(&config.RedisPrefix, "REDIS_PREFIX")
	flagx.StringFromEnv(&config.BoltPath, "BOLT_PATH")
	flagx.StringFromEnv(&config.S3Bucket, "S3_BUCKET")
	flagx.StringFromEnv(&config.S3Region, "S3_REGION")
	flagx.StringFromEnv(&config.S3BaseEndpoint, "S3_ENDPOINT")
	flagx.StringFromEnv(&config.S3AccessKey, "S3_ACCESS_KEY")
	flagx.StringFromEnv(&config.S3SecretKey, "S3_SECRET_KEY")
	flagx.StringFromEnv(&config.LogLevel, "LOG_LEVEL")

	for _, err := range []error{
		flagx.IntFromEnv(&config.ChunkSize, "CHUNKS_SIZE"),
		flagx.Int64FromEnv(&config.MaxUploadBytes, "MAX_UPLOAD_BYTES"),
		flagx.IntFromEnv(&config.MaxIDAttempts, "MAX_ID_ATTEMPTS"),
		flagx.IntFromEnv(&config.RedisDB, "REDIS_DB"),
		flagx.IntFromEnv(&config.S3Concurrency, "S3_CONCURRENCY"),
		flagx.DurationFromEnv(&config.RequestTimeout, "REQUEST_TIMEOUT"),
		flagx.DurationFromEnv(&config.ShutdownTimeout, "SHUTDOWN_TIMEOUT"),
	} {
		if err != nil {
			panic(err)
		}
	}
}
