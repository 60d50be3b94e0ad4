// Package netx holds small HTTP helpers shared by the client.
package netx

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// maxDrain caps how much of an unread body is consumed before closing.
const maxDrain = 4 << 10

// SendBytes issues method against url with body as an octet stream and the
// extra headers in hdr. The caller closes the response body.
func SendBytes(ctx context.Context, hc *http.Client, method, url string, body []byte, hdr http.Header) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if hc == nil {
		hc = http.DefaultClient
	}
	return hc.Do(req)
}

// DrainClose discards what is left of body so the connection can be reused.
func DrainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrain))
	_ = body.Close()
}
