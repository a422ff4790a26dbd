// Package fetcher opens reference sources from local paths, HTTP(S) or FTP
// and parses their spreadsheet and CSV payloads.
package fetcher

import (
	"context"
	"io"
)

// Fetcher downloads a remote resource.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}
