package recorder

import (
	"net/http"
	"time"
)

// ResponseRecorder is a wrapper around http.ResponseWriter that remembers the status code
// and the number of body bytes written, for access logs and metrics.
// It passes flushes through so streamed responses keep their flush points.
type ResponseRecorder struct {
	rw           http.ResponseWriter
	status       int
	wroteHeaders bool
	bytes        int64
	CreatedAt    time.Time
}

// Implementation of http.ResponseWriter
func (t *ResponseRecorder) Header() http.Header {
	return t.rw.Header()
}

// Implementation of http.ResponseWriter
func (t *ResponseRecorder) WriteHeader(statusCode int) {
	if t.wroteHeaders {
		return
	}
	t.wroteHeaders = true
	t.status = statusCode
	t.rw.WriteHeader(statusCode)
}

// Implementation of http.ResponseWriter
func (t *ResponseRecorder) Write(b []byte) (int, error) {
	if !t.wroteHeaders {
		t.WriteHeader(http.StatusOK)
	}
	n, err := t.rw.Write(b)
	t.bytes += int64(n)
	return n, err
}

// Implementation of http.Flusher
func (t *ResponseRecorder) Flush() {
	if !t.wroteHeaders {
		t.WriteHeader(http.StatusOK)
	}
	if f, ok := t.rw.(http.Flusher); ok {
		f.Flush()
	}
}

// StatusCode returns the status code of the response.
// It is 200 if the handler wrote nothing.
func (t *ResponseRecorder) StatusCode() int {
	if !t.wroteHeaders {
		return http.StatusOK
	}
	return t.status
}

// BytesWritten returns the number of body bytes written to the client.
func (t *ResponseRecorder) BytesWritten() int64 {
	return t.bytes
}

// Duration returns the time since the recorder was created.
func (t *ResponseRecorder) Duration() time.Duration {
	return time.Since(t.CreatedAt)
}

// NewResponseRecorder returns a new ResponseRecorder writing to w.
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{
		CreatedAt: time.Now(),
		rw:        w,
	}
}
