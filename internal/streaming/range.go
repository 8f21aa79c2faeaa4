package streaming

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"

	"filebox/internal/logging"
	"filebox/internal/metrics"
)

// chunkSize is the copy granularity; each chunk is flushed so playback can
// start before the transfer completes.
const chunkSize = 64 * 1024

// Sentinel errors for range handling.
var (
	// ErrMalformedRange indicates a range header that does not parse.
	ErrMalformedRange = errors.New("malformed range header")

	// ErrUnsatisfiableRange indicates a parseable range outside the file's
	// extent.
	ErrUnsatisfiableRange = errors.New("range not satisfiable")

	// ErrMissing indicates the payload is gone from disk even though the
	// caller holds metadata for it.
	ErrMissing = errors.New("payload missing on disk")
)

// ByteRange is a resolved inclusive byte span within a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the span covers.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// ParseRange resolves a client range header against a file of the given
// size. An empty header yields (nil, nil), meaning "whole file". A header
// that does not match bytes=<start>-<end> yields ErrMalformedRange; a
// parseable span outside the file yields ErrUnsatisfiableRange.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return nil, ErrMalformedRange
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, ErrMalformedRange
	}

	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, ErrMalformedRange
		}
	}

	if start >= size || end >= size || end < start {
		return nil, ErrUnsatisfiableRange
	}

	return &ByteRange{Start: start, End: end}, nil
}

// ServeFile streams the file at path, honoring the request's Range header
// per the package contract. It returns ErrMissing without writing anything
// if the payload is absent, so the caller can answer 410 Gone; every other
// outcome (200, 206, 416) is written here.
func ServeFile(w http.ResponseWriter, r *http.Request, path, mimeType string) error {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		metrics.StreamRequestsTotal.WithLabelValues("gone").Inc()
		return ErrMissing
	}
	if err != nil {
		return fmt.Errorf("failed to open payload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat payload: %w", err)
	}
	size := info.Size()

	span, err := ParseRange(r.Header.Get("Range"), size)
	switch {
	case errors.Is(err, ErrMalformedRange):
		metrics.StreamRequestsTotal.WithLabelValues("unsatisfiable").Inc()
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return nil
	case errors.Is(err, ErrUnsatisfiableRange):
		metrics.StreamRequestsTotal.WithLabelValues("unsatisfiable").Inc()
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return nil
	case err != nil:
		return err
	}

	if span == nil {
		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusOK)

		metrics.StreamRequestsTotal.WithLabelValues("ok").Inc()
		n := copyChunks(r, w, io.NewSectionReader(f, 0, size))
		metrics.StreamedBytesTotal.WithLabelValues("full").Add(float64(n))
		return nil
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", span.Start, span.End, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(span.Length(), 10))
	w.WriteHeader(http.StatusPartialContent)

	metrics.StreamRequestsTotal.WithLabelValues("partial").Inc()
	n := copyChunks(r, w, io.NewSectionReader(f, span.Start, span.Length()))
	metrics.StreamedBytesTotal.WithLabelValues("partial").Add(float64(n))
	return nil
}

// copyChunks copies src to the response in fixed-size chunks, flushing after
// each one and stopping early when the client disconnects. Returns the bytes
// written.
func copyChunks(r *http.Request, w http.ResponseWriter, src io.Reader) int64 {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, chunkSize)

	var written int64
	for {
		select {
		case <-r.Context().Done():
			logging.Debug("streaming: client disconnected after %d bytes", written)
			return written
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := w.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				logging.Debug("streaming: write aborted after %d bytes: %v", written, writeErr)
				return written
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return written
		}
		if readErr != nil {
			logging.Warn("streaming: read failed after %d bytes: %v", written, readErr)
			return written
		}
	}
}
