package country

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultFlagBaseURL serves round SVG flags keyed by lowercase ISO code.
const DefaultFlagBaseURL = "https://hatscripts.github.io/circle-flags/flags"

// FlagDownloader fetches flag SVGs over HTTP. Downloads are best-effort
// and are not retried; a circuit breaker stops hammering the flag host
// once it starts failing consistently.
type FlagDownloader struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
}

// NewFlagDownloader creates a downloader against the given base URL. An
// empty baseURL selects DefaultFlagBaseURL.
func NewFlagDownloader(baseURL string) *FlagDownloader {
	if baseURL == "" {
		baseURL = DefaultFlagBaseURL
	}
	return &FlagDownloader{
		client: &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "flag-download",
		}),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Fetch downloads the flag for an ISO code into destDir and returns the
// file name written ("BG.svg" for code "BG").
func (d *FlagDownloader) Fetch(ctx context.Context, code, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create flags directory: %w", err)
	}

	url := fmt.Sprintf("%s/%s.svg", d.baseURL, strings.ToLower(code))

	body, err := d.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return "", err
	}

	filename := code + ".svg"
	if err := os.WriteFile(filepath.Join(destDir, filename), body.([]byte), 0644); err != nil {
		return "", fmt.Errorf("failed to write flag file: %w", err)
	}

	return filename, nil
}
