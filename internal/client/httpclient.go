package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const defaultTimeout = 10 * time.Second

// ErrUnexpectedStatus is returned when a remote roster responds with a non-2xx code.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// CreateHTTPClient initializes an HTTP client that logs redirects.
func CreateHTTPClient(log *slog.Logger) *http.Client {
	return &http.Client{
		Timeout: defaultTimeout,
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}

// RosterSource opens roster documents either from an http(s) URL or from a
// path on the filesystem.
type RosterSource struct {
	httpClient *http.Client
	fs         afero.Fs
}

func NewRosterSource(httpClient *http.Client, afs afero.Fs) *RosterSource {
	return &RosterSource{httpClient: httpClient, fs: afs}
}

// Open returns the document at location. The caller closes it.
func (s *RosterSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !isRemote(location) {
		file, err := s.fs.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open roster %s: %w", location, err)
		}
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster %s: %w", location, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, location, resp.StatusCode)
	}

	return resp.Body, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
