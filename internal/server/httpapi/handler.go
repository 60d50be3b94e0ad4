package httpapi

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

// errorCodes maps service errors to a status and a response code. The first
// match wins; anything unlisted is an internal error.
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{common.ErrorEmptyBlob, http.StatusBadRequest, common.CodeEmptyBody},
	{common.ErrorUnclassifiableContent, http.StatusBadRequest, common.CodeInvalidFileType},
	{common.ErrorInvalidIdentifier, http.StatusBadRequest, common.CodeInvalidID},
	{common.ErrorIdentifierTaken, http.StatusBadRequest, common.CodeIDTaken},
	{common.ErrorIDSpaceExhausted, http.StatusServiceUnavailable, common.CodeIDExhausted},
	{common.ErrorNotFound, http.StatusNotFound, common.CodeNotFound},
	{common.ErrorChunkConsistency, http.StatusInternalServerError, common.CodeChunkError},
	// Only Delete reports this; the upload password is checked here.
	{common.ErrorUnauthorized, http.StatusBadRequest, common.CodeInvalidDeleteKey},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeCode(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, common.ErrorResponse{Error: &code})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed",
		"request_id", RequestIDFromContext(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeCode(w, http.StatusInternalServerError, common.CodeInternal)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			if e.status >= http.StatusInternalServerError {
				s.logger.Error(r.Context(), "request failed",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
			}
			writeCode(w, e.status, e.code)
			return
		}
	}
	s.internalError(w, r, err)
}

func (s *Server) authorized(r *http.Request) bool {
	got := r.Header.Get("Authorization")
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.UploadPassword)) == 1
}

// upload handles POST /u?id=<custom>.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeCode(w, http.StatusUnauthorized, common.CodeUnauthorized)
		return
	}

	body := r.Body
	if s.opts.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}

	blob, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeCode(w, http.StatusRequestEntityTooLarge, common.CodeTooLarge)
			return
		}
		s.internalError(w, r, err)
		return
	}

	h, err := s.blobs.Write(r.Context(), blob, r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, common.UploadResponse{
		ID:            h.ID,
		DeleteKey:     h.DeleteKey,
		TotalChunks:   h.TotalFragments,
		ContentType:   h.ContentType,
		FileExtension: h.FileExtension,
	})
}

func setMetadata(w http.ResponseWriter, h *models.Header) {
	w.Header().Set("Content-Type", h.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(h.ContentLength, 10))
	w.Header().Set(common.HeaderObjectID, h.ID)
	w.Header().Set(common.HeaderChunks, strconv.Itoa(h.TotalFragments))
	w.Header().Set(common.HeaderUploadedAt, strconv.FormatInt(h.UploadedAt, 10))
}

// fetch handles GET, HEAD and OPTIONS on /{id}.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")

	if s.serveStatic(w, raw) {
		return
	}

	h, err := s.blobs.Head(r.Context(), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.Method == http.MethodHead || r.Method == http.MethodOptions {
		setMetadata(w, h)
		if r.Method == http.MethodOptions {
			// No body follows, so a length would stall HTTP/1.1 clients.
			w.Header().Del("Content-Length")
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	if !strings.Contains(raw, ".") && h.IsImage() {
		s.viewer(w, r, h)
		return
	}

	h, data, err := s.blobs.Read(r.Context(), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setMetadata(w, h)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// viewer renders the HTML page that embeds <id>.<ext>.
func (s *Server) viewer(w http.ResponseWriter, r *http.Request, h *models.Header) {
	ext := h.FileExtension
	if ext == "" {
		ext = "ukn"
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, struct{ Filename string }{h.ID + "." + ext}); err != nil {
		s.internalError(w, r, err)
		return
	}

	setMetadata(w, h)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// remove handles GET and DELETE on /{id}/d/{key}.
func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if err := s.blobs.Delete(r.Context(), r.PathValue("id"), r.PathValue("key")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, common.ErrorResponse{})
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeCode(w, http.StatusNotFound, common.CodeNotFound)
}
