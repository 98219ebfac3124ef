package httpbin

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCache(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	rr, _ := get(t, h, "/cache")
	if rr.Code != http.StatusOK || rr.Header().Get("ETag") == "" || rr.Header().Get("Last-Modified") == "" {
		t.Fatalf("Unexpected response %d %v", rr.Code, rr.Header())
	}
	for _, header := range []string{"If-Modified-Since", "If-None-Match"} {
		req := httptest.NewRequest(http.MethodGet, "/cache", nil)
		req.Header.Set(header, "anything at all")
		rr, body := serve(h, req)
		if rr.Code != http.StatusNotModified || len(body) != 0 {
			t.Fatalf("%s: got %d with %d bytes", header, rr.Code, len(body))
		}
	}

	rr, _ = get(t, h, "/cache/60")
	if rr.Header().Get("Cache-Control") != "public, max-age=60" {
		t.Fatalf("Cache-Control is %q", rr.Header().Get("Cache-Control"))
	}
	if rr, _ := get(t, h, "/cache/soon"); rr.Code != http.StatusBadRequest {
		t.Fatalf("Invalid max-age returned %d", rr.Code)
	}
}

func TestETag(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	for _, tc := range []struct {
		ifMatch, ifNoneMatch string
		code                 int
	}{
		{"", "", http.StatusOK},
		{`"abc"`, "", http.StatusOK},
		{"*", "", http.StatusOK},
		{`"xyz"`, "", http.StatusPreconditionFailed},
		{"", `"abc"`, http.StatusNotModified},
		{"", "*", http.StatusNotModified},
		{"", `"xyz", W/"abc"`, http.StatusNotModified},
		{"", `"xyz"`, http.StatusOK},
		{`"abc"`, `"abc"`, http.StatusOK},
		{`"xyz"`, `"abc"`, http.StatusPreconditionFailed},
	} {
		req := httptest.NewRequest(http.MethodGet, "/etag/abc", nil)
		if tc.ifMatch != "" {
			req.Header.Set("If-Match", tc.ifMatch)
		}
		if tc.ifNoneMatch != "" {
			req.Header.Set("If-None-Match", tc.ifNoneMatch)
		}
		rr, _ := serve(h, req)
		if rr.Code != tc.code {
			t.Fatalf("If-Match %q If-None-Match %q: got %d, expected %d", tc.ifMatch, tc.ifNoneMatch, rr.Code, tc.code)
		}
		if rr.Code != http.StatusPreconditionFailed && rr.Header().Get("ETag") != "abc" {
			t.Fatalf("ETag missing for %d", rr.Code)
		}
	}
}

func rangeRequest(t *testing.T, h http.Handler, target, rangeHeader string) (*httptest.ResponseRecorder, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	return serve(h, req)
}

func TestRangeSlicesAlphabet(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	const size = 100
	full := string(alphabet(0, size-1))
	for _, tc := range []struct {
		header     string
		start, end int
	}{
		{"bytes=0-0", 0, 0},
		{"bytes=3-5", 3, 5},
		{"bytes=90-", 90, 99},
		{"bytes=-10", 90, 99},
		{"bytes=-1000", 0, 99},
		{"bytes=0-", 0, 99},
		{"bytes=26-51", 26, 51},
	} {
		rr, body := rangeRequest(t, h, "/range/"+strconv.Itoa(size), tc.header)
		if rr.Code != http.StatusPartialContent {
			t.Fatalf("%s: status is %d", tc.header, rr.Code)
		}
		if string(body) != full[tc.start:tc.end+1] {
			t.Fatalf("%s: body is %q", tc.header, body)
		}
		wantRange := "bytes " + strconv.Itoa(tc.start) + "-" + strconv.Itoa(tc.end) + "/" + strconv.Itoa(size)
		if rr.Header().Get("Content-Range") != wantRange {
			t.Fatalf("%s: Content-Range is %q, expected %q", tc.header, rr.Header().Get("Content-Range"), wantRange)
		}
		if rr.Header().Get("Content-Length") != strconv.Itoa(len(body)) {
			t.Fatalf("%s: Content-Length is %q", tc.header, rr.Header().Get("Content-Length"))
		}
		if rr.Header().Get("ETag") != "range100" || rr.Header().Get("Accept-Ranges") != "bytes" {
			t.Fatalf("%s: headers are %v", tc.header, rr.Header())
		}
	}

	rr, body := rangeRequest(t, h, "/range/30", "")
	if rr.Code != http.StatusOK || string(body) != "abcdefghijklmnopqrstuvwxyzabcd" {
		t.Fatalf("Full range is %d %q", rr.Code, body)
	}
}

func TestRangeUnsatisfiable(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	for _, header := range []string{"bytes=30-40", "bytes=0-9223372036854775807", "bytes=5-2", "bytes=-0", "items=0-1", "bytes=x-y"} {
		rr, body := rangeRequest(t, h, "/range/26", header)
		if rr.Code != http.StatusRequestedRangeNotSatisfiable {
			t.Fatalf("%s: status is %d", header, rr.Code)
		}
		if rr.Header().Get("Content-Range") != "bytes */26" || len(body) != 0 {
			t.Fatalf("%s: Content-Range is %q with %d bytes", header, rr.Header().Get("Content-Range"), len(body))
		}
	}
	for _, target := range []string{"/range/0", "/range/102401", "/range/abc"} {
		if rr, _ := rangeRequest(t, h, target, ""); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status is %d", target, rr.Code)
		}
	}
}

func TestRangeChunksOverDuration(t *testing.T) {
	h, sleeper := newTestBin(t, Config{})
	rr, body := getCountingFlushes(t, h, "/range/100?chunkSize=10&duration=1")
	if len(body) != 100 || rr.flushes != 10 {
		t.Fatalf("Got %d bytes in %d flushes", len(body), rr.flushes)
	}
	want := make([]time.Duration, 9)
	for i := range want {
		want[i] = 100 * time.Millisecond
	}
	if diff := cmp.Diff(want, sleeper.durations()); diff != "" {
		t.Fatalf("sleeps mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(string(body), "abcdefghij") {
		t.Fatalf("Body is %q", body)
	}
}
