package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/netx"
)

type Client interface {
	Upload(ctx context.Context, password string, data []byte, customID string) (*common.UploadResponse, error)
	Get(ctx context.Context, id string) (*Object, error)
	Info(ctx context.Context, id string) (*Object, error)
	Delete(ctx context.Context, id, key string) error
}

// Object is a stored blob as seen by the client. Data is nil for Info.
type Object struct {
	ID          string
	ContentType string
	Size        int64
	Chunks      int
	UploadedAt  time.Time
	Data        []byte
}

// rawSuffix forces the server to return bytes instead of the image viewer.
// The server ignores everything after the first dot.
const rawSuffix = ".raw"

type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the server at baseURL
// (e.g. "http://127.0.0.1:8080"). timeout <= 0 means no client timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body []byte, hdr http.Header) (*http.Response, error) {
	resp, err := netx.SendBytes(ctx, c.hc, method, c.baseURL+path, body, hdr)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

// apiError decodes the {"error": code} body of a failed reply.
func apiError(resp *http.Response) error {
	e := &APIError{Status: resp.StatusCode}

	var body common.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&body); err == nil && body.Error != nil {
		e.Code = *body.Error
	}
	if e.Code == "" && resp.StatusCode == http.StatusNotFound {
		e.Code = common.CodeNotFound
	}
	return e
}

func objectPath(id string) string {
	if !strings.Contains(id, ".") {
		id += rawSuffix
	}
	return "/" + url.PathEscape(id)
}

func (c *HTTPClient) Upload(ctx context.Context, password string, data []byte, customID string) (*common.UploadResponse, error) {
	path := common.UploadPath
	if customID != "" {
		path += "?" + url.Values{"id": {customID}}.Encode()
	}

	resp, err := c.send(ctx, http.MethodPost, path, data, http.Header{"Authorization": {password}})
	if err != nil {
		return nil, err
	}
	defer netx.DrainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var out common.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &out, nil
}

// metadata reads the X-* headers the server sets on object replies.
func metadata(resp *http.Response) (*Object, error) {
	o := &Object{
		ID:          resp.Header.Get(common.HeaderObjectID),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	var err error
	if v := resp.Header.Get(common.HeaderChunks); v != "" {
		if o.Chunks, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("bad %s header: %w", common.HeaderChunks, err)
		}
	}
	if v := resp.Header.Get(common.HeaderUploadedAt); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad %s header: %w", common.HeaderUploadedAt, err)
		}
		o.UploadedAt = time.UnixMilli(ms)
	}
	return o, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (*Object, error) {
	resp, err := c.send(ctx, http.MethodGet, objectPath(id), nil, nil)
	if err != nil {
		return nil, err
	}
	defer netx.DrainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	o, err := metadata(resp)
	if err != nil {
		return nil, err
	}
	if o.Data, err = io.ReadAll(resp.Body); err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	o.Size = int64(len(o.Data))
	return o, nil
}

// Info fetches metadata only, via HEAD.
func (c *HTTPClient) Info(ctx context.Context, id string) (*Object, error) {
	resp, err := c.send(ctx, http.MethodHead, objectPath(id), nil, nil)
	if err != nil {
		return nil, err
	}
	defer netx.DrainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	return metadata(resp)
}

func (c *HTTPClient) Delete(ctx context.Context, id, key string) error {
	resp, err := c.send(ctx, http.MethodDelete, "/"+url.PathEscape(id)+"/d/"+url.PathEscape(key), nil, nil)
	if err != nil {
		return err
	}
	defer netx.DrainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}
