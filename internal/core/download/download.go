// Package download fetches remote files for the runtime provisioner.
package download

import (
	"fmt"
	"io"
	"net/http"
)

// Fetch downloads the content at url, returning an error for any
// non-200 response.
func Fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to perform GET request to %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download from %s: received status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	return body, nil
}

// FetchWithFallback tries each URL in order and returns the first
// successful body. Used for the nvm install script, which has a mirror
// for networks where the primary host is unreachable.
func FetchWithFallback(urls ...string) ([]byte, error) {
	var lastErr error
	for _, url := range urls {
		body, err := Fetch(url)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
