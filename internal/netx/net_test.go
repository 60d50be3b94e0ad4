package netx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendBytes(t *testing.T) {
	file := []byte("hello, blobhost")

	t.Run("sends body and headers", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotAuth, gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotAuth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			gotBody = body
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		resp, err := SendBytes(context.Background(), ts.Client(), http.MethodPost, ts.URL+"/u?id=abc", file,
			http.Header{"Authorization": {"pw"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer DrainClose(resp.Body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if gotMethod != http.MethodPost {
			t.Fatalf("method = %q, want POST", gotMethod)
		}
		if gotCT != "application/octet-stream" {
			t.Fatalf("Content-Type = %q, want application/octet-stream", gotCT)
		}
		if gotAuth != "pw" {
			t.Fatalf("Authorization = %q, want pw", gotAuth)
		}
		if !bytes.Equal(gotBody, file) {
			t.Fatalf("body = %q, want %q", string(gotBody), string(file))
		}
	})

	t.Run("nil body sends no content type", func(t *testing.T) {
		var gotCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCT = r.Header.Get("Content-Type")
		}))
		defer ts.Close()

		resp, err := SendBytes(context.Background(), nil, http.MethodGet, ts.URL, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		DrainClose(resp.Body)
		if gotCT != "" {
			t.Fatalf("Content-Type = %q, want empty", gotCT)
		}
	})

	t.Run("honours context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := SendBytes(ctx, ts.Client(), http.MethodGet, ts.URL, nil, nil); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		_, err := SendBytes(context.Background(), nil, http.MethodPost, ts.URL, file, nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !isNetOpError(err) {
			if strings.Contains(err.Error(), "status") {
				t.Fatalf("got wrong kind of error: %v", err)
			}
		}
	})
}

type netOpErrorLike interface {
	error
	Timeout() bool
	Temporary() bool
}

func isNetOpError(err error) bool {
	var target netOpErrorLike
	return errors.As(err, &target)
}
