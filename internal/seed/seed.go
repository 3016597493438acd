// Package seed loads the static {name, phone} list used by the legacy
// rendering mode and tracks which of those numbers have been called.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrSeedUnavailable wraps every failure to fetch or parse the seed list
var ErrSeedUnavailable = errors.New("unable to load contacts")

// Entry is one contact in the seed document
type Entry struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Image string `json:"image,omitempty"`
}

// DefaultClient is used for http(s) sources
var DefaultClient = &http.Client{Timeout: 10 * time.Second}

// Load reads the seed list from a file path or an http(s) URL. It is
// fetched once; the caller shows the error inline and renders nothing.
func Load(ctx context.Context, source string, client *http.Client) ([]Entry, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: no source given", ErrSeedUnavailable)
	}

	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if client == nil {
			client = DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSeedUnavailable, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSeedUnavailable, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: fetching %s: %s", ErrSeedUnavailable, source, resp.Status)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSeedUnavailable, err)
		}
		body = f
	}
	defer body.Close()

	var entries []Entry
	if err := json.NewDecoder(body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrSeedUnavailable, source, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: %s is not a list", ErrSeedUnavailable, source)
	}
	return entries, nil
}
