// Package repomanager wires the header and fragment repositories of one
// backing document store and exposes its document size ceiling.
package repomanager

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
)

// Backend names accepted by Open and the server configuration.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendBolt     = "bolt"
	BackendS3       = "s3"
	BackendMemory   = "memory"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

// documentLimits is the largest single record each backend accepts.
var documentLimits = map[string]int64{
	BackendPostgres: 1 * gib,
	BackendRedis:    512 * mib,
	BackendBolt:     gib - 64*kib,
	BackendS3:       5 * gib,
	BackendMemory:   16 * mib,
}

// DocumentLimit returns the per-document ceiling of backend.
func DocumentLimit(backend string) (int64, error) {
	n, ok := documentLimits[backend]
	if !ok {
		return 0, fmt.Errorf("unknown store backend %q (want one of %v)", backend, Backends())
	}
	return n, nil
}

// Backends lists the known backend names in sorted order.
func Backends() []string {
	res := make([]string, 0, len(documentLimits))
	for k := range documentLimits {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

type RepositoryManager interface {
	Headers() headers.Repository
	Fragments() fragments.Repository
	MaxDocumentSize() int64
	Close() error
}

// Transactor is implemented by managers that can run header and fragment
// writes atomically. Repositories passed to fn are bound to the transaction;
// a non-nil error from fn rolls everything back.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, h headers.Repository, f fragments.Repository) error) error
}

// Migrator is implemented by managers that own a schema.
type Migrator interface {
	RunMigrations(ctx context.Context) error
}
