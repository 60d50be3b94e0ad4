package fragments

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/blobhost/internal/dbx"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"go.etcd.io/bbolt"
)

// BucketName is the bbolt bucket holding fragment data under
// "<parent>/<index as 8 hex digits>", so a prefix scan yields index order.
var BucketName = []byte("fragments")

type BoltRepository struct {
	db dbx.Bolt
}

// NewBoltRepository expects BucketName to exist already.
func NewBoltRepository(db dbx.Bolt) *BoltRepository {
	return &BoltRepository{db: db}
}

func prefix(parentID string) []byte {
	return []byte(parentID + "/")
}

func fragmentKey(parentID string, idx int) []byte {
	return []byte(fmt.Sprintf("%s/%08x", parentID, idx))
}

func (r *BoltRepository) InsertMany(ctx context.Context, fs []*models.Fragment) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(BucketName)
		for _, f := range fs {
			if err := b.Put(fragmentKey(f.ParentID, f.Index), f.Data); err != nil {
				return fmt.Errorf("bolt error: fragment %d: %w", f.Index, err)
			}
		}
		return nil
	})
}

func (r *BoltRepository) ListByParent(ctx context.Context, parentID string) ([]*models.Fragment, error) {
	var res []*models.Fragment
	err := r.db.View(func(tx *bbolt.Tx) error {
		p := prefix(parentID)
		c := tx.Bucket(BucketName).Cursor()
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			idx, err := strconv.ParseInt(string(k[len(p):]), 16, 64)
			if err != nil {
				return fmt.Errorf("bolt error: bad fragment key %q: %w", k, err)
			}
			// v is only valid for the life of the transaction.
			res = append(res, &models.Fragment{ParentID: parentID, Index: int(idx), Data: bytes.Clone(v)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *BoltRepository) DeleteByParent(ctx context.Context, parentID string) (int64, error) {
	var n int64
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(BucketName)
		p := prefix(parentID)

		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, bytes.Clone(k))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("bolt error: %w", err)
			}
		}
		n = int64(len(keys))
		return nil
	})
	return n, err
}
