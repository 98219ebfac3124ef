package httpbin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/always-cache/httpbin/rfc9110"

	"github.com/google/uuid"
)

const (
	maxRangeSize     = 100 * 1024
	defaultChunkSize = 10 * 1024
)

// cache answers 304 to any request carrying If-Modified-Since or If-None-Match.
func (h *HttpBin) cache(r *Request) (*Response, error) {
	if rfc9110.HasValidators(r.Header) {
		return NewResponse(http.StatusNotModified), nil
	}
	p, err := echo(r, false)
	if err != nil {
		return nil, err
	}
	res, err := jsonResponse(http.StatusOK, p)
	if err != nil {
		return nil, err
	}
	res.Add("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	res.Add("ETag", strings.ReplaceAll(uuid.NewString(), "-", ""))
	return res, nil
}

// cacheControl echoes the request with Cache-Control: public, max-age={s}.
func (h *HttpBin) cacheControl(r *Request) (*Response, error) {
	seconds, err := strconv.Atoi(r.Tail)
	if err != nil || seconds < 0 {
		return errorResponse(http.StatusBadRequest, "Invalid max-age"), nil
	}
	p, err := echo(r, false)
	if err != nil {
		return nil, err
	}
	res, err := jsonResponse(http.StatusOK, p)
	if err != nil {
		return nil, err
	}
	res.Add("Cache-Control", "public, max-age="+strconv.Itoa(seconds))
	return res, nil
}

// etag treats the path as the entity tag of the resource.
func (h *HttpBin) etag(r *Request) (*Response, error) {
	tag := r.Tail
	switch rfc9110.EvaluateETag(r.Header, tag) {
	case rfc9110.PreconditionFailed:
		return NewResponse(http.StatusPreconditionFailed), nil
	case rfc9110.NotModified:
		return NewResponse(http.StatusNotModified).Add("ETag", tag), nil
	}
	p, err := echo(r, false)
	if err != nil {
		return nil, err
	}
	res, err := jsonResponse(http.StatusOK, p)
	if err != nil {
		return nil, err
	}
	res.Add("ETag", tag)
	return res, nil
}

// byteRange serves {size} bytes of the repeating alphabet, honoring a Range header.
// chunk_size and duration spread the body over time.
func (h *HttpBin) byteRange(r *Request) (*Response, error) {
	size, err := strconv.ParseInt(r.Tail, 10, 64)
	if err != nil || size <= 0 || size > maxRangeSize {
		return errorResponse(http.StatusBadRequest, "Number of bytes must be in the range (0, 102400]"), nil
	}
	chunkSize, err := chunkSizeParam(r)
	if err != nil || chunkSize < 1 {
		return errorResponse(http.StatusBadRequest, "Invalid chunk_size"), nil
	}
	duration, err := secondsParam(r, "duration", 0)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid duration"), nil
	}
	etag := "range" + strconv.FormatInt(size, 10)

	rg, status := rfc9110.Full(size), http.StatusOK
	if header := r.Header.Get("Range"); header != "" {
		if rg, err = rfc9110.ParseRange(header, size); err != nil {
			return NewResponse(http.StatusRequestedRangeNotSatisfiable).
				Add("ETag", etag).
				Add("Content-Range", rfc9110.UnsatisfiedContentRange(size)), nil
		}
		status = http.StatusPartialContent
	}

	chunks := (rg.Length() + int64(chunkSize) - 1) / int64(chunkSize)
	pause := duration / time.Duration(chunks)
	ctx := r.Context()

	res := NewResponse(status).
		Add("ETag", etag).
		Add("Accept-Ranges", "bytes").
		Add("Content-Range", rg.ContentRange(size)).
		Add("Content-Type", "application/octet-stream")
	res.Body = StreamBody{
		Length: rg.Length(),
		Write: func(w StreamWriter) error {
			for start := rg.Start; start <= rg.End; start += int64(chunkSize) {
				end := start + int64(chunkSize) - 1
				if end > rg.End {
					end = rg.End
				}
				if _, err := w.Write(alphabet(start, end)); err != nil {
					return err
				}
				if err := w.Flush(); err != nil {
					return err
				}
				if end < rg.End {
					if err := h.sleep(ctx, pause); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	return res, nil
}

// alphabet returns the bytes at offsets start..end of the repeating sequence a..z.
func alphabet(start, end int64) []byte {
	b := make([]byte, 0, end-start+1)
	for i := start; i <= end; i++ {
		b = append(b, byte('a'+i%26))
	}
	return b
}
