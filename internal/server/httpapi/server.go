// Package httpapi exposes the blob store over HTTP.
package httpapi

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/logging"
	"github.com/dmitrijs2005/blobhost/internal/server/metrics"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

// BlobStore is the subset of services.BlobService the handlers use.
type BlobStore interface {
	Write(ctx context.Context, blob []byte, customID string) (*models.Header, error)
	Read(ctx context.Context, rawID string) (*models.Header, []byte, error)
	Head(ctx context.Context, rawID string) (*models.Header, error)
	Delete(ctx context.Context, id, key string) error
}

// Options tune request handling.
type Options struct {
	UploadPassword  string
	MaxUploadBytes  int64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	address string
	blobs   BlobStore
	opts    Options
	logger  logging.Logger
	metrics *metrics.Metrics
	page    *template.Template
}

// NewServer builds a Server listening on addr once Run is called.
// m may be nil.
func NewServer(addr string, l logging.Logger, blobs BlobStore, m *metrics.Metrics, opts Options) *Server {
	return &Server{
		address: addr,
		blobs:   blobs,
		opts:    opts,
		logger:  l.With("module", "http_server"),
		metrics: m,
		page:    template.Must(template.ParseFS(assets, "assets/page.html")),
	}
}

// Handler returns the routed and instrumented handler tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST "+common.UploadPath, s.upload)
	s.route(mux, "GET /{id}", s.fetch)
	s.route(mux, "OPTIONS /{id}", s.fetch)
	s.route(mux, "GET /{id}/d/{key}", s.remove)
	s.route(mux, "DELETE /{id}/d/{key}", s.remove)
	s.route(mux, "/", s.notFound)

	return s.requestID(mux)
}

func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		timeout := s.opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "graceful shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
