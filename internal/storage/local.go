package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalProvider writes files under a directory that the server exposes at /uploads.
type LocalProvider struct {
	dir string
	now func() time.Time
}

// NewLocalProvider creates a LocalProvider rooted at dir ("uploads" when empty).
func NewLocalProvider(dir string) *LocalProvider {
	if dir == "" {
		dir = "uploads"
	}
	return &LocalProvider{dir: dir, now: time.Now}
}

func (p *LocalProvider) Name() string { return ProviderLocal }

// Dir is the directory files are written to.
func (p *LocalProvider) Dir() string { return p.dir }

// Save stores the file as <field>-<unixMillis>-<random><ext>.
func (p *LocalProvider) Save(ctx context.Context, f File, baseURL string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	field := f.FieldName
	if field == "" {
		field = "file"
	}
	name := fmt.Sprintf("%s-%d-%d%s", field, p.now().UnixMilli(), rand.Int64N(1_000_000_000), filepath.Ext(f.Name))

	dst, err := os.OpenFile(filepath.Join(p.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, f.Body); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	return &Result{
		URL:      strings.TrimRight(baseURL, "/") + "/uploads/" + name,
		Filename: name,
		Provider: ProviderLocal,
	}, nil
}
