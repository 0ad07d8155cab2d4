package country

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchWritesFlagFile(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte("<svg>flag</svg>"))
	}))
	defer server.Close()

	destDir := filepath.Join(t.TempDir(), "flags")
	d := NewFlagDownloader(server.URL)

	filename, err := d.Fetch(context.Background(), "BG", destDir)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	// The host is queried with the lowercase code, the file keeps the
	// original casing.
	if requestedPath != "/bg.svg" {
		t.Errorf("requested path = %q, want /bg.svg", requestedPath)
	}
	if filename != "BG.svg" {
		t.Errorf("filename = %q, want BG.svg", filename)
	}

	data, err := os.ReadFile(filepath.Join(destDir, filename))
	if err != nil {
		t.Fatalf("Failed to read downloaded flag: %v", err)
	}
	if string(data) != "<svg>flag</svg>" {
		t.Errorf("flag content = %q", data)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	d := NewFlagDownloader(server.URL)
	_, err := d.Fetch(context.Background(), "XX", t.TempDir())
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not mention the status", err)
	}
}

func TestNewFlagDownloaderDefaultBaseURL(t *testing.T) {
	d := NewFlagDownloader("")
	if d.baseURL != DefaultFlagBaseURL {
		t.Errorf("baseURL = %q, want %q", d.baseURL, DefaultFlagBaseURL)
	}
}
