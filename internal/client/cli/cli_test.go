package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/blobhost/internal/client/client"
	"github.com/dmitrijs2005/blobhost/internal/client/config"
	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBlob = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 24)...)

type fakeClient struct {
	gotPassword string
	gotData     []byte
	gotCustomID string
	deleted     []string
	objects     map[string]*client.Object
	err         error
}

func (f *fakeClient) Upload(_ context.Context, password string, data []byte, customID string) (*common.UploadResponse, error) {
	f.gotPassword, f.gotData, f.gotCustomID = password, data, customID
	if f.err != nil {
		return nil, f.err
	}
	id := customID
	if id == "" {
		id = "Ab3dE9"
	}
	return &common.UploadResponse{ID: id, DeleteKey: "k3y", TotalChunks: 2, ContentType: "image/png", FileExtension: "png"}, nil
}

func (f *fakeClient) Get(_ context.Context, id string) (*client.Object, error) {
	if o, ok := f.objects[id]; ok {
		return o, nil
	}
	return nil, &client.APIError{Status: 404, Code: common.CodeNotFound}
}

func (f *fakeClient) Info(ctx context.Context, id string) (*client.Object, error) {
	return f.Get(ctx, id)
}

func (f *fakeClient) Delete(_ context.Context, id, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id+"/"+key)
	return nil
}

func newTestApp(fc *fakeClient, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{ServerURL: "http://img.test/", UploadPassword: "pw"},
		client: fc,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

func TestUpload_PrintsLinks(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(file, pngBlob, 0o600))

	fc := &fakeClient{}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.Run(context.Background(), []string{"upload", file, "kitty"}))

	assert.Equal(t, "pw", fc.gotPassword)
	assert.Equal(t, pngBlob, fc.gotData)
	assert.Equal(t, "kitty", fc.gotCustomID)
	assert.Contains(t, out.String(), "URL:         http://img.test/kitty.png")
	assert.Contains(t, out.String(), "Delete URL:  http://img.test/kitty/d/k3y")
	assert.Contains(t, out.String(), "32 B in 2 chunk(s)")
}

func TestUpload_PromptsForPassword(t *testing.T) {
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(_ io.Writer) (string, error) { return "typed", nil }

	file := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(file, pngBlob, 0o600))

	fc := &fakeClient{}
	app, _ := newTestApp(fc, "")
	app.config.UploadPassword = ""

	require.NoError(t, app.upload(context.Background(), []string{file}))
	assert.Equal(t, "typed", fc.gotPassword)
	assert.Empty(t, fc.gotCustomID)
}

func TestUpload_Errors(t *testing.T) {
	app, _ := newTestApp(&fakeClient{}, "")
	assert.ErrorIs(t, app.upload(context.Background(), nil), errUsage)
	assert.Error(t, app.upload(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}))

	file := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(file, []byte("words"), 0o600))
	fc := &fakeClient{err: &client.APIError{Status: 400, Code: common.CodeInvalidFileType}}
	app, _ = newTestApp(fc, "")
	assert.ErrorIs(t, app.upload(context.Background(), []string{file}), common.ErrorUnclassifiableContent)
}

func TestGet_WritesFileWithDetectedExtension(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	fc := &fakeClient{objects: map[string]*client.Object{
		"abc123": {ID: "abc123", ContentType: "image/png", Size: int64(len(pngBlob)), Data: pngBlob},
	}}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.get(context.Background(), []string{"abc123"}))
	got, err := os.ReadFile(filepath.Join(dir, "abc123.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBlob, got)
	assert.Contains(t, out.String(), "Saved")

	target := filepath.Join(dir, "nested", "copy.bin")
	require.NoError(t, app.get(context.Background(), []string{"abc123", target}))
	_, err = os.Stat(target)
	require.NoError(t, err)

	assert.ErrorIs(t, app.get(context.Background(), []string{"nope"}), common.ErrorNotFound)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "abc.png", outputName("abc", pngBlob))
	assert.Equal(t, "abc.jpeg", outputName("abc.jpeg", pngBlob))
	assert.Equal(t, "abc", outputName("abc", []byte("plain")))
}

func TestInfo(t *testing.T) {
	fc := &fakeClient{objects: map[string]*client.Object{
		"abc123": {ID: "abc123", ContentType: "application/pdf", Size: 2048, Chunks: 3, UploadedAt: time.UnixMilli(0)},
	}}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.info(context.Background(), []string{"abc123"}))
	assert.Contains(t, out.String(), "application/pdf")
	assert.Contains(t, out.String(), "2.0 KiB (2,048 bytes)")
	assert.Contains(t, out.String(), "Chunks:    3")
	assert.Contains(t, out.String(), "1970-01-01 00:00:00 UTC")
}

func TestDelete(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.delete(context.Background(), []string{"abc123", "k3y"}))
	assert.Equal(t, []string{"abc123/k3y"}, fc.deleted)
	assert.Contains(t, out.String(), "Deleted abc123")

	assert.ErrorIs(t, app.delete(context.Background(), []string{"abc123"}), errUsage)

	fc.err = &client.APIError{Status: 400, Code: common.CodeInvalidDeleteKey}
	assert.ErrorIs(t, app.delete(context.Background(), []string{"abc123", "bad"}), common.ErrorUnauthorized)
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(&fakeClient{}, "")
	err := app.Run(context.Background(), []string{"frobnicate"})
	assert.True(t, errors.Is(err, errUnknownCommand))
}

func TestRoot_ReadsCommandsUntilExit(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(fc, "help\n\ndelete abc key\nbogus\nexit\ndelete never key\n")

	app.Root(context.Background())

	s := out.String()
	assert.Contains(t, s, "Available commands")
	assert.Contains(t, s, "Deleted abc")
	assert.Contains(t, s, "Error: unknown command: bogus")
	assert.Contains(t, s, "Bye!")
	assert.Equal(t, []string{"abc/key"}, fc.deleted)
}

func TestRoot_StopsAtEOF(t *testing.T) {
	fc := &fakeClient{}
	app, _ := newTestApp(fc, "delete abc key")

	app.Root(context.Background())
	assert.Equal(t, []string{"abc/key"}, fc.deleted)
}
