package headers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/dbx"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"go.etcd.io/bbolt"
)

// BucketName is the bbolt bucket holding JSON-encoded headers keyed by id.
var BucketName = []byte("headers")

type BoltRepository struct {
	db dbx.Bolt
}

// NewBoltRepository expects BucketName to exist already.
func NewBoltRepository(db dbx.Bolt) *BoltRepository {
	return &BoltRepository{db: db}
}

func (r *BoltRepository) Create(ctx context.Context, h *models.Header) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(BucketName)
		if b.Get([]byte(h.ID)) != nil {
			return common.ErrorIdentifierTaken
		}
		if err := b.Put([]byte(h.ID), data); err != nil {
			return fmt.Errorf("bolt error: %w", err)
		}
		return nil
	})
}

func (r *BoltRepository) Get(ctx context.Context, id string) (*models.Header, error) {
	var h *models.Header
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(BucketName).Get([]byte(id))
		if data == nil {
			return common.ErrorNotFound
		}
		h = &models.Header{}
		if err := json.Unmarshal(data, h); err != nil {
			return fmt.Errorf("decode header %q: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *BoltRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket(BucketName).Get([]byte(id)) != nil
		return nil
	})
	return ok, err
}

func (r *BoltRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(BucketName)
		if b.Get([]byte(id)) == nil {
			return common.ErrorNotFound
		}
		if err := b.Delete([]byte(id)); err != nil {
			return fmt.Errorf("bolt error: %w", err)
		}
		return nil
	})
}
