package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"coursegen-go/internal/logger"
)

// Error is raised for any remote-ingestion failure. Permanent marks failures
// a retry cannot fix (bad URL, 4xx, oversized file); the HTTP layer maps
// those to client errors instead of 502.
type Error struct {
	Permanent bool
	Err       error
}

func (e *Error) Error() string { return fmt.Sprintf("media download failed: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Downloader streams remote video files to disk so they can enter the same
// extract-and-transcribe path as direct uploads. Unlike transcription and
// generation, a GET of a media object is idempotent and unpaid, so transient
// failures are retried here with backoff.
type Downloader struct {
	client   *http.Client
	maxBytes int64
	maxWait  time.Duration
	log      *logrus.Entry
}

func NewDownloader(maxBytes int64, maxWait time.Duration) *Downloader {
	if maxWait <= 0 {
		maxWait = 30 * time.Second
	}
	return &Downloader{
		client:   &http.Client{Timeout: maxWait},
		maxBytes: maxBytes,
		maxWait:  maxWait,
		log:      logger.New().WithField("component", "fetch"),
	}
}

// Download fetches rawURL into destPath. Transport errors and 5xx responses
// are retried with exponential backoff until maxWait elapses; 4xx responses
// and an exceeded size cap abort immediately. destPath is removed again on
// failure so a dead request leaves no partial artifact behind.
func (d *Downloader) Download(ctx context.Context, rawURL, destPath string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return &Error{Permanent: true, Err: fmt.Errorf("unsupported url %q", rawURL)}
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = d.maxWait

	var written int64
	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(&Error{Permanent: true, Err: err})
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(&Error{Permanent: true, Err: err})
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return &Error{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return &Error{Err: fmt.Errorf("remote returned %s", resp.Status)}
		case resp.StatusCode >= 400:
			return backoff.Permanent(&Error{Permanent: true, Err: fmt.Errorf("remote returned %s", resp.Status)})
		}

		written, err = d.save(resp.Body, destPath)
		if err != nil {
			return err
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		_ = os.Remove(destPath)
		var ferr *Error
		if !errors.As(err, &ferr) {
			ferr = &Error{Err: err}
		}
		d.log.WithError(ferr).WithField("url", rawURL).Warn("download failed")
		return ferr
	}

	d.log.WithFields(logrus.Fields{
		"url":        rawURL,
		"dest":       destPath,
		"size_bytes": written,
	}).Info("remote media downloaded")
	return nil
}

// save streams body to destPath, stopping one byte past the cap so oversized
// files fail without filling the disk.
func (d *Downloader) save(body io.Reader, destPath string) (int64, error) {
	f, err := os.Create(destPath)
	if err != nil {
		return 0, backoff.Permanent(&Error{Permanent: true, Err: err})
	}
	defer f.Close()

	reader := body
	if d.maxBytes > 0 {
		reader = io.LimitReader(body, d.maxBytes+1)
	}
	n, err := io.Copy(f, reader)
	if err != nil {
		return n, &Error{Err: err}
	}
	if d.maxBytes > 0 && n > d.maxBytes {
		return n, backoff.Permanent(&Error{Permanent: true, Err: fmt.Errorf("file exceeds %d byte cap", d.maxBytes)})
	}
	return n, nil
}
