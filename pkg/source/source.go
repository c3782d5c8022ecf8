// Package source reads flowchart source text from files, stdin, or URLs.
//
// A source spec is one of:
//   - a local file path ("flow.mmd")
//   - "-" for standard input
//   - an http(s) URL ("https://example.com/flow.mmd")
//
// URL fetches retry transient failures with exponential backoff and can
// be cached through an optional [httputil.Cache].
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/flowdraw/pkg/errors"
	"github.com/matzehuels/flowdraw/pkg/httputil"
	"github.com/matzehuels/flowdraw/pkg/observability"
)

// MaxSourceSize bounds how much source text Read will accept, from any
// origin. Flowchart sources are small; anything near this limit is a
// mistake or abuse.
const MaxSourceSize = 1 << 20 // 1 MiB

// httpTimeout bounds a single URL fetch attempt.
const httpTimeout = 30 * time.Second

// Reader reads diagram sources. The zero value works without caching;
// set Cache to reuse fetched URLs across runs.
type Reader struct {
	// Cache, when non-nil, caches URL fetches under the "url:" namespace.
	Cache *httputil.Cache

	// Client overrides the HTTP client used for URL fetches.
	Client *http.Client

	// Stdin overrides os.Stdin, for tests.
	Stdin io.Reader
}

// Read resolves a source spec and returns the source text together with
// a display name ("stdin", the file path, or the URL).
func (r *Reader) Read(ctx context.Context, spec string) (string, string, error) {
	switch {
	case spec == "-":
		text, err := r.readStdin()
		return text, "stdin", err
	case strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://"):
		text, err := r.readURL(ctx, spec)
		return text, spec, err
	default:
		text, err := r.readFile(spec)
		return text, spec, err
	}
}

// Read resolves a source spec with a default Reader (no URL cache).
func Read(ctx context.Context, spec string) (string, string, error) {
	var r Reader
	return r.Read(ctx, spec)
}

func (r *Reader) readStdin() (string, error) {
	in := r.Stdin
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(io.LimitReader(in, MaxSourceSize+1))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidSource, err, "read stdin")
	}
	if len(data) > MaxSourceSize {
		return "", errors.New(errors.ErrCodeInvalidSource, "stdin source exceeds %d bytes", MaxSourceSize)
	}
	return string(data), nil
}

func (r *Reader) readFile(path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeFileNotFound, "no such file: %s", path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", path)
	}
	if len(data) > MaxSourceSize {
		return "", errors.New(errors.ErrCodeInvalidSource, "%s exceeds %d bytes", path, MaxSourceSize)
	}
	return string(data), nil
}

func (r *Reader) readURL(ctx context.Context, rawURL string) (string, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return "", err
	}

	if r.Cache != nil {
		var cached string
		if ok, err := r.Cache.Namespace("url:").Get(rawURL, &cached); ok && err == nil {
			return cached, nil
		}
	}

	var text string
	err := httputil.RetryWithBackoff(ctx, func() error {
		fetched, err := r.fetch(ctx, rawURL)
		if err != nil {
			return err
		}
		text = fetched
		return nil
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}

	if r.Cache != nil {
		_ = r.Cache.Namespace("url:").Set(rawURL, text)
	}
	return text, nil
}

// fetch performs a single HTTP GET. Transient failures come back wrapped
// in httputil.RetryableError so the retry loop tries again.
func (r *Reader) fetch(ctx context.Context, rawURL string) (string, error) {
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return "", &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to body read
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", &httputil.RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("status 404")
	default:
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSourceSize+1))
	if err != nil {
		return "", &httputil.RetryableError{Err: err}
	}
	if len(data) > MaxSourceSize {
		return "", fmt.Errorf("response exceeds %d bytes", MaxSourceSize)
	}
	return string(data), nil
}
