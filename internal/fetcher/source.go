package fetcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Opener resolves a source location to its content. Locations are local
// paths or http://, https:// and ftp:// URLs.
type Opener struct {
	HTTP Fetcher
	FTP  Fetcher
}

// NewOpener returns an Opener backed by the default HTTP and FTP fetchers.
func NewOpener(httpOpts HTTPOptions, ftpOpts FTPOptions) *Opener {
	return &Opener{
		HTTP: NewHTTPFetcher(httpOpts),
		FTP:  NewFTPFetcher(ftpOpts),
	}
}

// IsRemote reports whether location is a URL rather than a local path.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") || strings.HasPrefix(l, "ftp://")
}

func (o *Opener) fetcherFor(location string) (Fetcher, error) {
	if strings.HasPrefix(strings.ToLower(location), "ftp://") {
		if o.FTP == nil {
			return nil, eris.Errorf("source: no ftp fetcher configured for %s", location)
		}
		return o.FTP, nil
	}
	if o.HTTP == nil {
		return nil, eris.Errorf("source: no http fetcher configured for %s", location)
	}
	return o.HTTP, nil
}

// Open returns a reader over the content at location.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if location == "" {
		return nil, eris.New("source: empty location")
	}
	if !IsRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, eris.Wrapf(err, "source: open %s", location)
		}
		return f, nil
	}

	f, err := o.fetcherFor(location)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("source: downloading", zap.String("location", location))
	return f.Download(ctx, location)
}

// Materialize returns a local file path holding the content at location.
// Remote content is written under dir; cleanup removes it. Local paths are
// returned unchanged with a no-op cleanup.
func (o *Opener) Materialize(ctx context.Context, location, dir string) (string, func(), error) {
	noop := func() {}
	if location == "" {
		return "", noop, eris.New("source: empty location")
	}
	if !IsRemote(location) {
		if _, err := os.Stat(location); err != nil {
			return "", noop, eris.Wrapf(err, "source: stat %s", location)
		}
		return location, noop, nil
	}

	body, err := o.Open(ctx, location)
	if err != nil {
		return "", noop, err
	}
	defer body.Close() //nolint:errcheck

	ext := filepath.Ext(location)
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	tmp, err := os.CreateTemp(dir, "source-*"+ext)
	if err != nil {
		return "", noop, eris.Wrap(err, "source: create temp file")
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	n, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", noop, eris.Wrapf(err, "source: write %s", location)
	}

	zap.L().Debug("source: materialized",
		zap.String("location", location),
		zap.String("path", tmp.Name()),
		zap.Int64("bytes", n),
	)
	return tmp.Name(), cleanup, nil
}
