package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/blobhost/internal/dbx"
	"github.com/dmitrijs2005/blobhost/internal/filex"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
	"go.etcd.io/bbolt"
)

// BoltRepositoryManager keeps everything in a single bbolt file.
type BoltRepositoryManager struct {
	db *bbolt.DB
}

var (
	_ RepositoryManager = (*BoltRepositoryManager)(nil)
	_ Transactor        = (*BoltRepositoryManager)(nil)
)

// OpenBolt opens or creates the database at path, creating the parent
// directory and both buckets as needed.
func OpenBolt(path string) (*BoltRepositoryManager, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("bolt: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{headers.BucketName, fragments.BucketName} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: %w", err)
	}

	return &BoltRepositoryManager{db: db}, nil
}

func (m *BoltRepositoryManager) Headers() headers.Repository {
	return headers.NewBoltRepository(dbx.Bolt{DB: m.db})
}

func (m *BoltRepositoryManager) Fragments() fragments.Repository {
	return fragments.NewBoltRepository(dbx.Bolt{DB: m.db})
}

func (m *BoltRepositoryManager) MaxDocumentSize() int64 {
	return documentLimits[BackendBolt]
}

func (m *BoltRepositoryManager) Close() error {
	return m.db.Close()
}

// WithTx runs fn inside one read-write bbolt transaction. bbolt allows a
// single writer at a time, so concurrent calls serialize here.
func (m *BoltRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, h headers.Repository, f fragments.Repository) error) error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		b := dbx.Bolt{DB: m.db, Tx: tx}
		return fn(ctx, headers.NewBoltRepository(b), fragments.NewBoltRepository(b))
	})
}
