package repomanager

import (
	"context"
	"fmt"
)

// Settings selects and configures a backend for Open. Only the fields of
// the chosen backend are read.
type Settings struct {
	Backend     string
	DatabaseDSN string
	Redis       RedisOptions
	BoltPath    string
	S3          S3Options
}

// Open connects to the configured backend. Postgres schemas are migrated
// before Open returns.
func Open(ctx context.Context, s Settings) (RepositoryManager, error) {
	switch s.Backend {
	case BackendPostgres:
		m, err := OpenPostgres(ctx, s.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := m.RunMigrations(ctx); err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return m, nil
	case BackendRedis:
		return OpenRedis(ctx, s.Redis)
	case BackendBolt:
		return OpenBolt(s.BoltPath)
	case BackendS3:
		return OpenS3(ctx, s.S3)
	case BackendMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		_, err := DocumentLimit(s.Backend)
		return nil, err
	}
}
