package fragments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/blobhost/internal/objstore"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// maxDeleteBatch is the DeleteObjects per-request key limit.
const maxDeleteBatch = 1000

// S3Repository stores each fragment as its own object at
// "fragments/<parent>/<index as 8 decimal digits>".
type S3Repository struct {
	api         objstore.API
	bucket      string
	concurrency int
}

// NewS3Repository uploads and downloads up to concurrency fragments in
// parallel; values below 1 mean sequential.
func NewS3Repository(api objstore.API, bucket string, concurrency int) *S3Repository {
	if concurrency < 1 {
		concurrency = 1
	}
	return &S3Repository{api: api, bucket: bucket, concurrency: concurrency}
}

func parentPrefix(parentID string) string {
	return "fragments/" + parentID + "/"
}

func objectKey(parentID string, idx int) string {
	return fmt.Sprintf("%s%08d", parentPrefix(parentID), idx)
}

func (r *S3Repository) InsertMany(ctx context.Context, fs []*models.Fragment) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, f := range fs {
		g.Go(func() error {
			_, err := r.api.PutObject(ctx, &s3.PutObjectInput{
				Bucket:        aws.String(r.bucket),
				Key:           aws.String(objectKey(f.ParentID, f.Index)),
				Body:          bytes.NewReader(f.Data),
				ContentLength: aws.Int64(int64(len(f.Data))),
			})
			if err != nil {
				return fmt.Errorf("s3 error: fragment %d: %w", f.Index, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *S3Repository) listKeys(ctx context.Context, parentID string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(r.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(parentPrefix(parentID)),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 error: list fragments of %q: %w", parentID, err)
		}
		for _, o := range page.Contents {
			keys = append(keys, aws.ToString(o.Key))
		}
	}
	return keys, nil
}

func (r *S3Repository) ListByParent(ctx context.Context, parentID string) ([]*models.Fragment, error) {
	keys, err := r.listKeys(ctx, parentID)
	if err != nil {
		return nil, err
	}

	idxs := make([]int, len(keys))
	for i, key := range keys {
		idx, err := strconv.Atoi(strings.TrimPrefix(key, parentPrefix(parentID)))
		if err != nil {
			return nil, fmt.Errorf("s3 error: bad fragment key %q: %w", key, err)
		}
		idxs[i] = idx
	}

	res := make([]*models.Fragment, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, key := range keys {
		idx := idxs[i]
		g.Go(func() error {
			out, err := r.api.GetObject(gctx, &s3.GetObjectInput{
				Bucket: aws.String(r.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return fmt.Errorf("s3 error: fragment %d: %w", idx, err)
			}
			defer out.Body.Close()

			data, err := io.ReadAll(out.Body)
			if err != nil {
				return fmt.Errorf("s3 error: read fragment %d: %w", idx, err)
			}
			res[i] = &models.Fragment{ParentID: parentID, Index: idx, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Index < res[j].Index })
	return res, nil
}

func (r *S3Repository) DeleteByParent(ctx context.Context, parentID string) (int64, error) {
	keys, err := r.listKeys(ctx, parentID)
	if err != nil {
		return 0, err
	}

	var n int64
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))

		objs := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			objs = append(objs, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := r.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(r.bucket),
			Delete: &types.Delete{Objects: objs, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return n, fmt.Errorf("s3 error: delete fragments of %q: %w", parentID, err)
		}
		if len(out.Errors) > 0 {
			e := out.Errors[0]
			return n, fmt.Errorf("s3 error: delete %s: %s", aws.ToString(e.Key), aws.ToString(e.Message))
		}
		n += int64(len(objs))
	}
	return n, nil
}
