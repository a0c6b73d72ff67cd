package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDownload_RetriesTransientThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("fake video bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "video.mp4")
	d := NewDownloader(1<<20, 10*time.Second)
	if err := d.Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("downloaded body = %q", data)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits = %d, want 3 (two retries)", got)
	}
}

func TestDownload_ClientErrorIsPermanent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "video.mp4")
	err := NewDownloader(1<<20, 10*time.Second).Download(context.Background(), srv.URL, dest)

	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if !ferr.Permanent {
		t.Error("404 should be permanent")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (no retry on 4xx)", got)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("failed download left a partial artifact")
	}
}

func TestDownload_SizeCapEnforced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "video.mp4")
	err := NewDownloader(1024, 10*time.Second).Download(context.Background(), srv.URL, dest)

	var ferr *Error
	if !errors.As(err, &ferr) || !ferr.Permanent {
		t.Fatalf("oversized download should fail permanently, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("oversized download left a partial artifact")
	}
}

func TestDownload_RejectsBadURL(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "video.mp4")
	err := NewDownloader(1024, time.Second).Download(context.Background(), "ftp://example.com/a.mp4", dest)

	var ferr *Error
	if !errors.As(err, &ferr) || !ferr.Permanent {
		t.Fatalf("non-http url should fail permanently, got %v", err)
	}
}
