package httpbin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
)

// ErrBodyConsumed is returned when the request body is read a second time.
var ErrBodyConsumed = errors.New("request body already consumed")

// Request is the read-only view of an inbound request handed to behaviors.
type Request struct {
	Method     string
	Path       string
	RawQuery   string
	Query      url.Values
	Header     http.Header
	Cookies    []*http.Cookie
	RemoteAddr string
	Host       string
	Scheme     string
	// Tail is the part of the path after the prefix of the matched rule.
	Tail string

	escapedPath string
	body        io.ReadCloser
	consumed    bool
	ctx         context.Context
}

func newRequest(r *http.Request) *Request {
	header := r.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	// net/http moves Host out of the header map
	if header.Get("Host") == "" && r.Host != "" {
		header.Set("Host", r.Host)
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	body := r.Body
	if body == nil {
		body = http.NoBody
	}
	return &Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		RawQuery:    r.URL.RawQuery,
		Query:       r.URL.Query(),
		Header:      header,
		Cookies:     r.Cookies(),
		RemoteAddr:  getRequestSourceIp(r),
		Host:        r.Host,
		Scheme:      scheme,
		escapedPath: r.URL.EscapedPath(),
		body:        body,
		ctx:         r.Context(),
	}
}

// Context returns the request context, which is done when the client goes away.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// ReadBody reads the whole request body.
// The body can only be read once.
func (r *Request) ReadBody() ([]byte, error) {
	if r.consumed {
		return nil, ErrBodyConsumed
	}
	r.consumed = true
	return io.ReadAll(r.body)
}

// drain discards whatever is left of the body so the connection can be reused.
func (r *Request) drain() {
	if r.consumed {
		return
	}
	r.consumed = true
	io.Copy(io.Discard, r.body)
}

// BaseURL returns scheme and host, e.g. "http://localhost:8080".
func (r *Request) BaseURL() string {
	return r.Scheme + "://" + r.Host
}

// URL returns the full URL of the request, including the query string.
func (r *Request) URL() string {
	u := r.BaseURL() + r.escapedPath
	if r.RawQuery != "" {
		u += "?" + r.RawQuery
	}
	return u
}
