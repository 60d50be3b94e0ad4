package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/blobhost/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-m string   metrics bind address, empty disables
//	-p string   upload password
//	-k int      chunk size in bytes
//	-l int      max upload size in bytes
//	-s string   store backend (postgres, redis, bolt, s3, memory)
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-f string   bbolt database file
//	-b string   S3 bucket name
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-t duration per-request timeout
//	-v string   log level
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flag.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-p", "-k", "-l", "-s", "-d", "-r", "-f", "-b", "-e", "-t", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BindAddr, "a", config.BindAddr, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for /metrics, empty disables")
	fs.StringVar(&config.UploadPassword, "p", config.UploadPassword, "upload password")
	fs.IntVar(&config.ChunkSize, "k", config.ChunkSize, "chunk size in bytes")
	fs.Int64Var(&config.MaxUploadBytes, "l", config.MaxUploadBytes, "max upload size in bytes")
	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.BoltPath, "f", config.BoltPath, "bolt database file")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "per-request timeout")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
