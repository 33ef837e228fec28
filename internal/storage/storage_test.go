package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"threadline/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsProvider(t *testing.T) {
	t.Parallel()

	local := New(&config.Config{StorageProvider: "local", LocalUploadPath: "files"})
	assert.Equal(t, ProviderLocal, local.Name())
	assert.Equal(t, "files", local.(*LocalProvider).Dir())

	fallback := New(&config.Config{StorageProvider: "gcs"})
	assert.Equal(t, ProviderLocal, fallback.Name())

	r2 := New(&config.Config{StorageProvider: "r2", R2Endpoint: "http://localhost:9000", R2BucketName: "b"})
	assert.Equal(t, ProviderR2, r2.Name())
}

func TestLocalProvider_Save(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	p := NewLocalProvider(dir)
	p.now = func() time.Time { return time.UnixMilli(1700000000123) }

	res, err := p.Save(context.Background(), File{
		FieldName: "file",
		Name:      "cat.png",
		Body:      bytes.NewReader([]byte("png-bytes")),
	}, "http://example.com/")
	require.NoError(t, err)

	assert.Equal(t, ProviderLocal, res.Provider)
	assert.Regexp(t, regexp.MustCompile(`^file-1700000000123-\d+\.png$`), res.Filename)
	assert.Equal(t, "http://example.com/uploads/"+res.Filename, res.URL)

	data, err := os.ReadFile(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalProvider_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalProvider(t.TempDir()).Save(ctx, File{Name: "a.txt", Body: strings.NewReader("x")}, "http://h")
	assert.ErrorIs(t, err, context.Canceled)
}

// fakeS3 records PutObject requests.
type fakeS3 struct {
	mu          sync.Mutex
	path        string
	contentType string
	body        []byte
	status      int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.path = r.URL.Path
	f.contentType = r.Header.Get("Content-Type")
	f.body, _ = io.ReadAll(r.Body)
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestR2Provider_Save(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	p := NewR2Provider(R2Config{
		Endpoint:        srv.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "media",
		PublicURL:       "https://cdn.example.com",
	})
	p.now = func() time.Time { return time.UnixMilli(1700000000456) }

	payload := []byte("hello r2")
	res, err := p.Save(context.Background(), File{
		Name:        "photo.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(payload)),
		Body:        bytes.NewReader(payload),
	}, "http://ignored")
	require.NoError(t, err)

	assert.Equal(t, "1700000000456-photo.jpg", res.Filename)
	assert.Equal(t, "https://cdn.example.com/1700000000456-photo.jpg", res.URL)
	assert.Equal(t, ProviderR2, res.Provider)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "/media/1700000000456-photo.jpg", fake.path)
	assert.Equal(t, "image/jpeg", fake.contentType)
	assert.Contains(t, string(fake.body), "hello r2")
}

func TestR2Provider_SaveError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&fakeS3{status: http.StatusForbidden})
	t.Cleanup(srv.Close)

	p := NewR2Provider(R2Config{
		Endpoint:        srv.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "media",
		PublicURL:       "https://cdn.example.com",
	})

	_, err := p.Save(context.Background(), File{Name: "a.txt", Size: 1, Body: strings.NewReader("x")}, "")
	assert.Error(t, err)
}
