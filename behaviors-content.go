package httpbin

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/always-cache/httpbin/assets"
	"github.com/always-cache/httpbin/pkg/codec"

	"github.com/google/uuid"
)

const maxLinks = 200

const robotsTxt = `User-agent: *
Disallow: /deny
`

const denyTxt = `
          .-''''''-.
        .' _      _ '.
       /   O      O   \
      :                :
      |                |
      :       __       :
       \  .-"` + "`" + `  ` + "`" + `"-.  /
        '.          .'
          '-......-'
     YOU SHOULDN'T BE HERE
`

// compressed echoes the request with the flag set, encoded with the given content coding.
func (h *HttpBin) compressed(r *Request, encoding string, flag func(*EchoPayload)) (*Response, error) {
	p, err := echo(r, false)
	if err != nil {
		return nil, err
	}
	flag(p)
	b, err := marshal(p)
	if err != nil {
		return nil, err
	}
	encoded, err := codec.Encode(encoding, append(b, '\n'))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return contentResponse("application/json", encoded).Add("Content-Encoding", encoding), nil
}

func (h *HttpBin) gzip(r *Request) (*Response, error) {
	return h.compressed(r, codec.EncodingGzip, func(p *EchoPayload) { p.Gzipped = true })
}

func (h *HttpBin) deflate(r *Request) (*Response, error) {
	return h.compressed(r, codec.EncodingDeflate, func(p *EchoPayload) { p.Deflated = true })
}

func (h *HttpBin) brotli(r *Request) (*Response, error) {
	return h.compressed(r, codec.EncodingBrotli, func(p *EchoPayload) { p.Brotli = true })
}

// base64 decodes the path and returns the raw bytes.
// Both the standard and the URL-safe alphabet are accepted, with or without padding.
func (h *HttpBin) base64(r *Request) (*Response, error) {
	value := strings.TrimRight(r.Tail, "=")
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(value)
	}
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Incorrect Base64 data"), nil
	}
	return contentResponse("text/html; charset=utf-8", decoded), nil
}

func (h *HttpBin) uuid(r *Request) (*Response, error) {
	return jsonResponse(http.StatusOK, struct {
		UUID string `json:"uuid"`
	}{uuid.NewString()})
}

// links serves /links/{n}/{offset}, a page of n links with the one at offset unlinked.
// /links/{n} redirects to offset 0.
func (h *HttpBin) links(r *Request) (*Response, error) {
	count, offsetParam, hasOffset := strings.Cut(r.Tail, "/")
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return errorResponse(http.StatusBadRequest, "Invalid number of links"), nil
	}
	if n > maxLinks {
		n = maxLinks
	}
	if !hasOffset {
		return redirectResponse(http.StatusFound, fmt.Sprintf("/links/%d/0", n)), nil
	}
	offset, err := strconv.Atoi(offsetParam)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid offset"), nil
	}

	var b strings.Builder
	b.WriteString("<html><head><title>Links</title></head><body>")
	for i := 0; i < n; i++ {
		if i == offset {
			fmt.Fprintf(&b, "%d ", i)
		} else {
			fmt.Fprintf(&b, "<a href='/links/%d/%d'>%d</a> ", n, i, i)
		}
	}
	b.WriteString("</body></html>")
	return contentResponse("text/html; charset=utf-8", []byte(b.String())), nil
}

// asset serves a named asset from the provider.
func (h *HttpBin) asset(name, contentType string) (*Response, error) {
	content, err := h.assets.Get(name)
	if err != nil {
		return nil, fmt.Errorf("could not load asset %s: %w", name, err)
	}
	return contentResponse(contentType, content), nil
}

func (h *HttpBin) home(r *Request) (*Response, error) {
	return h.asset(assets.Home, "text/html; charset=utf-8")
}

func (h *HttpBin) html(r *Request) (*Response, error) {
	return h.asset(assets.HTML, "text/html; charset=utf-8")
}

func (h *HttpBin) xml(r *Request) (*Response, error) {
	return h.asset(assets.XML, "application/xml")
}

func (h *HttpBin) jpeg(r *Request) (*Response, error) {
	return h.asset(assets.JPEG, "image/jpeg")
}

func (h *HttpBin) png(r *Request) (*Response, error) {
	return h.asset(assets.PNG, "image/png")
}

func (h *HttpBin) robots(r *Request) (*Response, error) {
	return contentResponse("text/plain", []byte(robotsTxt)), nil
}

func (h *HttpBin) deny(r *Request) (*Response, error) {
	return contentResponse("text/plain", []byte(denyTxt)), nil
}
