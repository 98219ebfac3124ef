package httpbin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

// ErrSerialization wraps failures to build a structured body.
var ErrSerialization = errors.New("could not serialize response")

var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// HeaderField is a single response header line.
type HeaderField struct {
	Name  string
	Value string
}

// Response is what a behavior produces. It is written by the composer once the
// behavior returns, so the status and header fields are fixed before any body byte.
type Response struct {
	Status int
	Header []HeaderField
	Body   Body
}

// Body is one of EmptyBody, BytesBody or StreamBody.
type Body interface {
	// length returns the body size, or -1 if it is not known up front.
	length() int64
}

// EmptyBody is a body without content.
type EmptyBody struct{}

func (EmptyBody) length() int64 { return 0 }

// BytesBody is a body whose content is fully known.
type BytesBody []byte

func (b BytesBody) length() int64 { return int64(len(b)) }

// StreamWriter is handed to streamed bodies.
// Flush sends everything written so far to the client.
type StreamWriter interface {
	Write(p []byte) (int, error)
	Flush() error
}

// StreamBody is a body produced incrementally.
// Length is the total size if known, or -1 for chunked framing.
type StreamBody struct {
	Length int64
	Write  func(w StreamWriter) error
}

func (b StreamBody) length() int64 { return b.Length }

// NewResponse returns a response with the given status and an empty body.
func NewResponse(status int) *Response {
	return &Response{Status: status, Body: EmptyBody{}}
}

// Add appends a header field. Fields are sent in the order they were added.
func (res *Response) Add(name, value string) *Response {
	res.Header = append(res.Header, HeaderField{Name: name, Value: value})
	return res
}

// Get returns the first value of the named header field.
func (res *Response) Get(name string) string {
	canonical := http.CanonicalHeaderKey(name)
	for _, f := range res.Header {
		if http.CanonicalHeaderKey(f.Name) == canonical {
			return f.Value
		}
	}
	return ""
}

func (res *Response) has(name string) bool {
	canonical := http.CanonicalHeaderKey(name)
	for _, f := range res.Header {
		if http.CanonicalHeaderKey(f.Name) == canonical {
			return true
		}
	}
	return false
}

// marshal serializes v as compact JSON with sorted map keys.
func marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return b, nil
}

// jsonResponse returns a response with v serialized as the body.
func jsonResponse(status int, v interface{}) (*Response, error) {
	b, err := marshal(v)
	if err != nil {
		return nil, err
	}
	res := NewResponse(status)
	res.Add("Content-Type", "application/json")
	res.Body = BytesBody(append(b, '\n'))
	return res, nil
}

// contentResponse returns a 200 response with a fixed body and content type.
func contentResponse(contentType string, content []byte) *Response {
	res := NewResponse(http.StatusOK)
	res.Add("Content-Type", contentType)
	res.Body = BytesBody(content)
	return res
}

// errorResponse returns a plain text error response.
func errorResponse(status int, message string) *Response {
	return contentResponse("text/plain; charset=utf-8", []byte(message+"\n")).withStatus(status)
}

func (res *Response) withStatus(status int) *Response {
	res.Status = status
	return res
}

// bodyAllowedForStatus mirrors net/http: no body for 1xx, 204 and 304.
func bodyAllowedForStatus(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

type flushWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (fw flushWriter) Write(p []byte) (int, error) {
	return fw.w.Write(p)
}

func (fw flushWriter) Flush() error {
	if fw.flusher == nil {
		return errors.New("response writer cannot flush")
	}
	fw.flusher.Flush()
	return nil
}

// write sends the response to the client.
// Content-Length is set whenever the body size is known before writing.
func (h *HttpBin) write(w http.ResponseWriter, r *Request, res *Response) {
	header := w.Header()
	for _, f := range res.Header {
		header.Add(f.Name, f.Value)
	}
	if n := res.Body.length(); n >= 0 && bodyAllowedForStatus(res.Status) && !res.has("Content-Length") {
		header.Set("Content-Length", strconv.FormatInt(n, 10))
	}
	w.WriteHeader(res.Status)

	var err error
	switch body := res.Body.(type) {
	case BytesBody:
		if bodyAllowedForStatus(res.Status) && r.Method != http.MethodHead {
			_, err = w.Write(body)
		}
	case StreamBody:
		if r.Method != http.MethodHead {
			err = h.stream(w, body)
		}
	}
	if err != nil {
		// the client most likely went away, which ends the response normally
		h.log.Debug().Err(err).Str("path", r.Path).Msg("Could not write response body to client")
	}
}

func (h *HttpBin) stream(w http.ResponseWriter, body StreamBody) (err error) {
	defer func() {
		if p := recover(); p != nil {
			h.log.WithLevel(zerolog.PanicLevel).Interface("error", p).Msg("Panic while streaming")
			err = fmt.Errorf("panic while streaming: %v", p)
		}
	}()
	fw := flushWriter{w: w}
	fw.flusher, _ = w.(http.Flusher)
	return body.Write(fw)
}
