package streaming

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRange(t *testing.T) {
	t.Parallel()

	const size = 1000

	tests := []struct {
		name    string
		header  string
		want    *ByteRange
		wantErr error
	}{
		{name: "empty header means whole file", header: "", want: nil},
		{name: "open ended", header: "bytes=0-", want: &ByteRange{Start: 0, End: 999}},
		{name: "explicit span", header: "bytes=100-199", want: &ByteRange{Start: 100, End: 199}},
		{name: "single first byte", header: "bytes=0-0", want: &ByteRange{Start: 0, End: 0}},
		{name: "single last byte", header: "bytes=999-999", want: &ByteRange{Start: 999, End: 999}},
		{name: "tail from midpoint", header: "bytes=500-", want: &ByteRange{Start: 500, End: 999}},
		{name: "start at size", header: "bytes=1000-", wantErr: ErrUnsatisfiableRange},
		{name: "span at size", header: "bytes=1000-1000", wantErr: ErrUnsatisfiableRange},
		{name: "end at size", header: "bytes=0-1000", wantErr: ErrUnsatisfiableRange},
		{name: "inverted span", header: "bytes=200-100", wantErr: ErrUnsatisfiableRange},
		{name: "suffix form", header: "bytes=-500", wantErr: ErrMalformedRange},
		{name: "missing unit", header: "0-100", wantErr: ErrMalformedRange},
		{name: "wrong unit", header: "items=0-100", wantErr: ErrMalformedRange},
		{name: "multiple spans", header: "bytes=0-100,200-300", wantErr: ErrMalformedRange},
		{name: "garbage", header: "bytes=abc-def", wantErr: ErrMalformedRange},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRange(tt.header, size)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseRange(%q) error = %v, want %v", tt.header, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseRange(%q) = %+v, want %+v", tt.header, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseRange(%q) = %+v, want %+v", tt.header, got, tt.want)
			}
		})
	}
}

func TestByteRangeLength(t *testing.T) {
	t.Parallel()

	if got := (ByteRange{Start: 0, End: 0}).Length(); got != 1 {
		t.Errorf("single-byte span length = %d, want 1", got)
	}
	if got := (ByteRange{Start: 100, End: 199}).Length(); got != 100 {
		t.Errorf("hundred-byte span length = %d, want 100", got)
	}
}

func writeTestPayload(t *testing.T, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "payload.mp4")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	return path
}

func serveRange(t *testing.T, path, rangeHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	rec := httptest.NewRecorder()
	if err := ServeFile(rec, req, path, "video/mp4"); err != nil {
		t.Fatalf("ServeFile: %v", err)
	}
	return rec
}

func TestServeFileWholeFile(t *testing.T) {
	t.Parallel()
	path := writeTestPayload(t, 200000)

	rec := serveRange(t, path, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Length"); got != "200000" {
		t.Errorf("Content-Length = %q, want 200000", got)
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q, want bytes", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", got)
	}
	if rec.Body.Len() != 200000 {
		t.Errorf("body length = %d, want 200000", rec.Body.Len())
	}
}

func TestServeFilePartial(t *testing.T) {
	t.Parallel()
	path := writeTestPayload(t, 1000)

	tests := []struct {
		name      string
		header    string
		wantRange string
		wantLen   int
	}{
		{name: "first byte", header: "bytes=0-0", wantRange: "bytes 0-0/1000", wantLen: 1},
		{name: "interior span", header: "bytes=100-199", wantRange: "bytes 100-199/1000", wantLen: 100},
		{name: "open tail", header: "bytes=900-", wantRange: "bytes 900-999/1000", wantLen: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serveRange(t, path, tt.header)

			if rec.Code != http.StatusPartialContent {
				t.Fatalf("status = %d, want 206", rec.Code)
			}
			if got := rec.Header().Get("Content-Range"); got != tt.wantRange {
				t.Errorf("Content-Range = %q, want %q", got, tt.wantRange)
			}
			if got := rec.Header().Get("Content-Length"); got != fmt.Sprint(tt.wantLen) {
				t.Errorf("Content-Length = %q, want %d", got, tt.wantLen)
			}
			if rec.Body.Len() != tt.wantLen {
				t.Errorf("body length = %d, want %d", rec.Body.Len(), tt.wantLen)
			}
		})
	}
}

func TestServeFilePartialBodyContent(t *testing.T) {
	t.Parallel()
	path := writeTestPayload(t, 1000)

	rec := serveRange(t, path, "bytes=250-259")

	body := rec.Body.Bytes()
	if len(body) != 10 {
		t.Fatalf("body length = %d, want 10", len(body))
	}
	for i, b := range body {
		if want := byte((250 + i) % 251); b != want {
			t.Fatalf("body[%d] = %d, want %d", i, b, want)
		}
	}
}

func TestServeFileUnsatisfiable(t *testing.T) {
	t.Parallel()
	path := writeTestPayload(t, 1000)

	tests := []struct {
		name   string
		header string
	}{
		{name: "start at size", header: "bytes=1000-"},
		{name: "span at size", header: "bytes=1000-1000"},
		{name: "end past size", header: "bytes=0-5000"},
		{name: "inverted", header: "bytes=500-100"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serveRange(t, path, tt.header)

			if rec.Code != http.StatusRequestedRangeNotSatisfiable {
				t.Fatalf("status = %d, want 416", rec.Code)
			}
			if got := rec.Header().Get("Content-Range"); got != "bytes */1000" {
				t.Errorf("Content-Range = %q, want %q", got, "bytes */1000")
			}
		})
	}
}

func TestServeFileMalformed(t *testing.T) {
	t.Parallel()
	path := writeTestPayload(t, 1000)

	rec := serveRange(t, path, "bytes=-500")

	if rec.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d, want 416", rec.Code)
	}
	// Malformed headers get no extent hint.
	if got := rec.Header().Get("Content-Range"); got != "" {
		t.Errorf("Content-Range = %q, want empty", got)
	}
}

func TestServeFileMissingPayload(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := httptest.NewRecorder()

	err := ServeFile(rec, req, filepath.Join(t.TempDir(), "gone.mp4"), "video/mp4")
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("ServeFile on absent payload returned %v, want ErrMissing", err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("ServeFile wrote %d bytes before reporting the absence", rec.Body.Len())
	}
}
