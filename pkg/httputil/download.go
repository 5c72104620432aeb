package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/csrgraph/pkg/buildinfo"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// Download defaults.
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

// Downloader fetches files over HTTP with retries and conditional requests.
// It is safe for concurrent use; concurrent fetches of the same destination
// share one transfer.
type Downloader struct {
	Client   *http.Client
	Cache    *Cache // optional; nil disables conditional requests
	Logger   *log.Logger
	Attempts int
	Delay    time.Duration

	inflight singleflight.Group
}

// NewDownloader creates a Downloader with default retry settings.
// If logger is nil, log.Default() is used.
func NewDownloader(cache *Cache, logger *log.Logger) *Downloader {
	if logger == nil {
		logger = log.Default()
	}
	return &Downloader{
		Client:   http.DefaultClient,
		Cache:    cache,
		Logger:   logger,
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
	}
}

// Result describes a completed fetch.
type Result struct {
	URL  string
	Path string

	// Bytes is the number of bytes transferred; 0 when NotModified.
	Bytes int64

	// NotModified is set when the server confirmed the local copy.
	NotModified bool
}

// Fetch downloads url to dest. The file is written to a temporary sibling
// and renamed into place, so dest is either the old file or the complete
// new one. With force set, recorded validators are ignored.
func (d *Downloader) Fetch(ctx context.Context, url, dest string, force bool) (*Result, error) {
	v, err, shared := d.inflight.Do(dest, func() (any, error) {
		return d.fetch(ctx, url, dest, force)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		d.Logger.Debug("joined in-flight download", "dest", dest)
	}
	return v.(*Result), nil
}

func (d *Downloader) fetch(ctx context.Context, url, dest string, force bool) (*Result, error) {
	prev := d.validators(url, dest, force)

	var res *Result
	err := Retry(ctx, d.Attempts, d.Delay, func() error {
		var err error
		res, err = d.fetchOnce(ctx, url, dest, prev)
		if err != nil && isRetryable(err) {
			d.Logger.Warn("download failed, retrying", "url", url, "err", err)
		}
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, cerrors.Wrap(cerrors.ErrCodeNotFound, err, "download")
		}
		if cerrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeNetwork, err, "download")
	}
	return res, nil
}

// validators returns the cached validators for url if dest still matches
// them, or the zero value.
func (d *Downloader) validators(url, dest string, force bool) Validators {
	if d.Cache == nil || force {
		return Validators{}
	}
	v, ok, err := d.Cache.Lookup(url)
	if err != nil {
		if !errors.Is(err, ErrExpired) {
			d.Logger.Debug("ignoring cache entry", "url", url, "err", err)
		}
		return Validators{}
	}
	if !ok {
		return Validators{}
	}
	info, err := os.Stat(dest)
	if err != nil || info.Size() != v.Size {
		return Validators{}
	}
	return v
}

func (d *Downloader) fetchOnce(ctx context.Context, url, dest string, prev Validators) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", "csrgraph/"+buildinfo.Version)
	if prev.ETag != "" {
		req.Header.Set("If-None-Match", prev.ETag)
	}
	if prev.LastModified != "" {
		req.Header.Set("If-Modified-Since", prev.LastModified)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && prev.Conditional():
		d.Logger.Debug("not modified", "url", url)
		return &Result{URL: url, Path: dest, NotModified: true}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, classifyStatus(url, resp.StatusCode)
	}

	n, err := writeAtomic(dest, resp.Body, resp.ContentLength)
	if err != nil {
		return nil, err
	}

	if d.Cache != nil {
		v := Validators{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			Size:         n,
			Fetched:      time.Now().UTC(),
		}
		if err := d.Cache.Store(v); err != nil {
			d.Logger.Warn("could not record download", "url", url, "err", err)
		}
	}
	return &Result{URL: url, Path: dest, Bytes: n}, nil
}

// writeAtomic copies body into dest via a temporary file. A body shorter
// than the announced length is a retryable failure.
func writeAtomic(dest string, body io.Reader, want int64) (n int64, err error) {
	dir, base := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, cerrors.Wrap(cerrors.ErrCodeIO, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+base+".part-*")
	if err != nil {
		return 0, cerrors.Wrap(cerrors.ErrCodeIO, err, "create temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	n, err = io.Copy(tmp, body)
	if err != nil {
		return n, &RetryableError{Err: fmt.Errorf("read body: %w", err)}
	}
	if want >= 0 && n != want {
		return n, &RetryableError{Err: fmt.Errorf("short body: got %d of %d bytes", n, want)}
	}
	if err = tmp.Sync(); err != nil {
		return n, cerrors.Wrap(cerrors.ErrCodeIO, err, "sync %s", tmp.Name())
	}
	if err = tmp.Chmod(0o644); err != nil {
		return n, cerrors.Wrap(cerrors.ErrCodeIO, err, "chmod %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return n, cerrors.Wrap(cerrors.ErrCodeIO, err, "close %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return n, cerrors.Wrap(cerrors.ErrCodeIO, err, "rename to %s", dest)
	}
	return n, nil
}
