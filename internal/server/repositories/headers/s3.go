package headers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/objstore"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

// S3Repository stores each header as a JSON object at "headers/<id>".
// Creation is a conditional put (If-None-Match: *), so a second writer for
// the same id gets a precondition failure instead of overwriting.
type S3Repository struct {
	api    objstore.API
	bucket string
}

func NewS3Repository(api objstore.API, bucket string) *S3Repository {
	return &S3Repository{api: api, bucket: bucket}
}

func objectKey(id string) string {
	return "headers/" + id
}

func (r *S3Repository) Create(ctx context.Context, h *models.Header) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	_, err = r.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(h.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if objstore.IsPreconditionFailed(err) {
			return common.ErrorIdentifierTaken
		}
		return fmt.Errorf("s3 error: %w", err)
	}
	return nil
}

func (r *S3Repository) Get(ctx context.Context, id string) (*models.Header, error) {
	out, err := r.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		if objstore.IsNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 error: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 error: read header %q: %w", id, err)
	}

	h := &models.Header{}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("decode header %q: %w", id, err)
	}
	return h, nil
}

func (r *S3Repository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		if objstore.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 error: %w", err)
	}
	return true, nil
}

// Delete checks for the object first; S3 deletes of missing keys succeed
// silently.
func (r *S3Repository) Delete(ctx context.Context, id string) error {
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}

	_, err = r.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		return fmt.Errorf("s3 error: %w", err)
	}
	return nil
}
