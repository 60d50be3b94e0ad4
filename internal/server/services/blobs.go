package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/logging"
	"github.com/dmitrijs2005/blobhost/internal/randx"
	"github.com/dmitrijs2005/blobhost/internal/server/chunker"
	"github.com/dmitrijs2005/blobhost/internal/server/idalloc"
	"github.com/dmitrijs2005/blobhost/internal/server/metrics"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blobhost/internal/server/sniff"
	"github.com/dustin/go-humanize"
)

// DeleteKeyLength is the length of generated deletion secrets.
const DeleteKeyLength = 32

// BlobService stores blobs as one header plus ordered fragments.
//
// Writes persist the header first and the fragments second; deletes remove
// the header first and the fragments second. When the repository manager
// is a repomanager.Transactor both phases share one transaction. Otherwise
// a failure in the second phase leaves an orphan that is logged and
// counted but never cleaned up.
type BlobService struct {
	repos     repomanager.RepositoryManager
	alloc     *idalloc.Allocator
	keys      randx.Generator
	chunkSize int
	logger    logging.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option customizes a BlobService.
type Option func(*blobServiceOptions)

type blobServiceOptions struct {
	ids           randx.Generator
	keys          randx.Generator
	maxIDAttempts int
	metrics       *metrics.Metrics
	now           func() time.Time
}

// WithIDGenerator replaces the random source for automatic ids.
func WithIDGenerator(g randx.Generator) Option {
	return func(o *blobServiceOptions) { o.ids = g }
}

// WithKeyGenerator replaces the random source for deletion secrets.
func WithKeyGenerator(g randx.Generator) Option {
	return func(o *blobServiceOptions) { o.keys = g }
}

// WithMaxIDAttempts bounds automatic id allocation.
func WithMaxIDAttempts(n int) Option {
	return func(o *blobServiceOptions) { o.maxIDAttempts = n }
}

// WithMetrics records object and collision counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *blobServiceOptions) { o.metrics = m }
}

// WithClock overrides the upload timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *blobServiceOptions) { o.now = now }
}

// NewBlobService builds a service over repos that splits blobs into
// fragments of at most chunkSize bytes.
func NewBlobService(repos repomanager.RepositoryManager, chunkSize int, logger logging.Logger, opts ...Option) *BlobService {
	o := blobServiceOptions{
		ids:  randx.New(randx.Alphanumeric),
		keys: randx.New(randx.Alphanumeric),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	alloc := idalloc.New(repos.Headers(), o.ids, o.maxIDAttempts, logger)
	alloc.OnCollision(o.metrics.IDCollision)

	return &BlobService{
		repos:     repos,
		alloc:     alloc,
		keys:      o.keys,
		chunkSize: chunkSize,
		logger:    logger.With("module", "blobs"),
		metrics:   o.metrics,
		now:       o.now,
	}
}

// StripSuffix drops everything from the first "." so that "abc123.png"
// and "abc123" name the same object.
func StripSuffix(rawID string) string {
	id, _, _ := strings.Cut(rawID, ".")
	return id
}

// storeErr passes domain sentinels through and tags everything else as a
// backing store failure.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorIdentifierTaken) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", common.ErrorBackingStore, op, err)
}

// Write stores blob under customID, or under a generated id when customID
// is empty, and returns the persisted header.
func (s *BlobService) Write(ctx context.Context, blob []byte, customID string) (*models.Header, error) {
	if len(blob) == 0 {
		return nil, common.ErrorEmptyBlob
	}

	t, ok := sniff.Sniff(blob)
	if !ok {
		return nil, common.ErrorUnclassifiableContent
	}

	parts, err := chunker.Split(blob, s.chunkSize)
	if err != nil {
		return nil, err
	}

	deleteKey, err := s.keys.String(DeleteKeyLength)
	if err != nil {
		return nil, fmt.Errorf("generate delete key: %w", err)
	}

	for attempt := 1; ; attempt++ {
		id, err := s.alloc.Allocate(ctx, customID)
		if err != nil {
			return nil, err
		}

		h := &models.Header{
			ID:             id,
			DeleteKey:      deleteKey,
			ContentType:    t.MIME,
			FileExtension:  t.Extension,
			ContentLength:  int64(len(blob)),
			TotalFragments: len(parts),
			UploadedAt:     s.now().UnixMilli(),
		}

		fs := make([]*models.Fragment, len(parts))
		for i, p := range parts {
			fs[i] = &models.Fragment{ParentID: id, Index: i, Data: p}
		}

		err = s.persist(ctx, h, fs)
		if errors.Is(err, common.ErrorIdentifierTaken) && customID == "" && attempt < s.alloc.MaxAttempts() {
			// Lost a race for a generated id between the existence check
			// and the insert.
			s.metrics.IDCollision()
			s.logger.Warn(ctx, "generated id taken at insert", "id", id, "attempt", attempt)
			continue
		}
		if errors.Is(err, common.ErrorIdentifierTaken) && customID == "" {
			return nil, common.ErrorIDSpaceExhausted
		}
		if err != nil {
			return nil, err
		}

		s.metrics.ObjectOp("write", h.ContentLength, h.TotalFragments)
		s.logger.Info(ctx, "object stored",
			"id", h.ID,
			"type", h.ContentType,
			"size", humanize.IBytes(uint64(h.ContentLength)),
			"fragments", h.TotalFragments,
		)
		return h, nil
	}
}

func (s *BlobService) persist(ctx context.Context, h *models.Header, fs []*models.Fragment) error {
	if tx, ok := s.repos.(repomanager.Transactor); ok {
		err := tx.WithTx(ctx, func(ctx context.Context, hr headers.Repository, fr fragments.Repository) error {
			if err := hr.Create(ctx, h); err != nil {
				return err
			}
			return fr.InsertMany(ctx, fs)
		})
		return storeErr("write object", err)
	}

	if err := s.repos.Headers().Create(ctx, h); err != nil {
		return storeErr("create header", err)
	}

	if err := s.repos.Fragments().InsertMany(ctx, fs); err != nil {
		s.metrics.Orphan("header")
		s.logger.Error(ctx, "orphaned header",
			"id", h.ID,
			"fragments", h.TotalFragments,
			"error", err,
		)
		return storeErr("insert fragments", err)
	}
	return nil
}

// Head returns the header for rawID without touching fragments.
func (s *BlobService) Head(ctx context.Context, rawID string) (*models.Header, error) {
	h, err := s.repos.Headers().Get(ctx, StripSuffix(rawID))
	if err != nil {
		return nil, storeErr("get header", err)
	}
	return h, nil
}

// Read returns the header and reassembled bytes for rawID.
func (s *BlobService) Read(ctx context.Context, rawID string) (*models.Header, []byte, error) {
	h, err := s.Head(ctx, rawID)
	if err != nil {
		return nil, nil, err
	}

	fs, err := s.repos.Fragments().ListByParent(ctx, h.ID)
	if err != nil {
		return nil, nil, storeErr("list fragments", err)
	}

	parts, err := ordered(h, fs)
	if err != nil {
		s.logger.Error(ctx, "inconsistent fragment set", "id", h.ID, "error", err)
		return nil, nil, err
	}

	data := chunker.Join(parts)
	if int64(len(data)) != h.ContentLength {
		err := fmt.Errorf("%w: %q reassembled to %d bytes, header says %d",
			common.ErrorChunkConsistency, h.ID, len(data), h.ContentLength)
		s.logger.Error(ctx, "inconsistent fragment set", "id", h.ID, "error", err)
		return nil, nil, err
	}

	s.metrics.ObjectOp("read", h.ContentLength, len(parts))
	return h, data, nil
}

// ordered sorts fs by index and checks that it is exactly 0..TotalFragments-1.
func ordered(h *models.Header, fs []*models.Fragment) ([][]byte, error) {
	if len(fs) == 0 {
		return nil, fmt.Errorf("%w: %q has no fragments", common.ErrorChunkConsistency, h.ID)
	}
	if len(fs) != h.TotalFragments {
		return nil, fmt.Errorf("%w: %q has %d of %d fragments",
			common.ErrorChunkConsistency, h.ID, len(fs), h.TotalFragments)
	}

	slices.SortFunc(fs, func(a, b *models.Fragment) int { return a.Index - b.Index })

	parts := make([][]byte, len(fs))
	for i, f := range fs {
		if f.Index != i {
			return nil, fmt.Errorf("%w: %q is missing fragment %d", common.ErrorChunkConsistency, h.ID, i)
		}
		parts[i] = f.Data
	}
	return parts, nil
}

// Delete removes the object id if key matches its deletion secret.
// A wrong key removes nothing.
func (s *BlobService) Delete(ctx context.Context, id, key string) error {
	h, err := s.repos.Headers().Get(ctx, id)
	if err != nil {
		return storeErr("get header", err)
	}

	if subtle.ConstantTimeCompare([]byte(h.DeleteKey), []byte(key)) != 1 {
		return common.ErrorUnauthorized
	}

	var removed int64
	if tx, ok := s.repos.(repomanager.Transactor); ok {
		err = tx.WithTx(ctx, func(ctx context.Context, hr headers.Repository, fr fragments.Repository) error {
			if err := hr.Delete(ctx, id); err != nil {
				return err
			}
			removed, err = fr.DeleteByParent(ctx, id)
			return err
		})
		if err != nil {
			return storeErr("delete object", err)
		}
	} else {
		if err := s.repos.Headers().Delete(ctx, id); err != nil {
			return storeErr("delete header", err)
		}

		removed, err = s.repos.Fragments().DeleteByParent(ctx, id)
		if err != nil {
			s.metrics.Orphan("fragments")
			s.logger.Error(ctx, "orphaned fragments",
				"id", id,
				"fragments", h.TotalFragments,
				"error", err,
			)
			return storeErr("delete fragments", err)
		}
	}

	if removed != int64(h.TotalFragments) {
		s.logger.Warn(ctx, "fragment count mismatch on delete",
			"id", id,
			"expected", h.TotalFragments,
			"removed", removed,
		)
	}

	s.metrics.ObjectOp("delete", 0, int(removed))
	s.logger.Info(ctx, "object deleted", "id", id)
	return nil
}
