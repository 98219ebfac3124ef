package httpbin

import (
	"math"
	"net/http"
	"strconv"
	"time"

	seededrand "github.com/always-cache/httpbin/pkg/seeded-rand"
)

const (
	maxStreamLines = 100
	maxRandomBytes = 100 * 1024
	maxDripBytes   = 10 * 1024 * 1024
)

func intParam(r *Request, name string, def int) (int, error) {
	value := r.Query.Get(name)
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}

// chunkSizeParam reads chunk_size, or its alias chunkSize.
func chunkSizeParam(r *Request) (int, error) {
	name := "chunk_size"
	if r.Query.Get(name) == "" {
		name = "chunkSize"
	}
	return intParam(r, name, defaultChunkSize)
}

// secondsParam parses a (fractional) number of seconds.
// Negative and NaN values count as zero.
func secondsParam(r *Request, name string, def float64) (time.Duration, error) {
	seconds := def
	if value := r.Query.Get(name); value != "" {
		var err error
		if seconds, err = strconv.ParseFloat(value, 64); err != nil {
			return 0, err
		}
	}
	return toDuration(seconds, math.MaxInt64), nil
}

// toDuration converts seconds to a duration capped at limit.
func toDuration(seconds float64, limit time.Duration) time.Duration {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if seconds >= limit.Seconds() {
		return limit
	}
	return time.Duration(seconds * float64(time.Second))
}

// delay waits min(s, 10) seconds before echoing the request.
func (h *HttpBin) delay(r *Request) (*Response, error) {
	seconds, err := strconv.ParseFloat(r.Tail, 64)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid delay"), nil
	}
	if err := h.sleep(r.Context(), toDuration(seconds, h.maxDelay)); err != nil {
		h.log.Debug().Err(err).Msg("Client went away during delay")
	}
	p, err := echo(r, true)
	if err != nil {
		return nil, err
	}
	return jsonResponse(http.StatusOK, p)
}

// drip writes numbytes bytes one at a time over duration seconds, after an initial delay.
// Every byte is followed by a pause of duration/numbytes.
func (h *HttpBin) drip(r *Request) (*Response, error) {
	duration, err := secondsParam(r, "duration", 2)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid duration"), nil
	}
	delay, err := secondsParam(r, "delay", 0)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid delay"), nil
	}
	numbytes, err := intParam(r, "numbytes", 10)
	if err != nil || numbytes <= 0 {
		return errorResponse(http.StatusBadRequest, "number of bytes must be positive"), nil
	}
	if numbytes > maxDripBytes {
		numbytes = maxDripBytes
	}
	code, err := intParam(r, "code", http.StatusOK)
	if err != nil || code < 200 || code > 599 {
		return errorResponse(http.StatusBadRequest, "Invalid status code"), nil
	}

	ctx := r.Context()
	if err := h.sleep(ctx, delay); err != nil {
		h.log.Debug().Err(err).Msg("Client went away during drip delay")
	}
	pause := duration / time.Duration(numbytes)

	res := NewResponse(code).Add("Content-Type", "application/octet-stream")
	res.Body = StreamBody{
		Length: int64(numbytes),
		Write: func(w StreamWriter) error {
			for i := 0; i < numbytes; i++ {
				if _, err := w.Write([]byte{'*'}); err != nil {
					return err
				}
				if err := w.Flush(); err != nil {
					return err
				}
				if err := h.sleep(ctx, pause); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return res, nil
}

// streamLines writes min(n, 100) echo objects, one per line.
func (h *HttpBin) streamLines(r *Request) (*Response, error) {
	n, err := strconv.Atoi(r.Tail)
	if err != nil || n < 0 {
		return errorResponse(http.StatusBadRequest, "Invalid number of lines"), nil
	}
	if n > maxStreamLines {
		n = maxStreamLines
	}
	p, err := echo(r, false)
	if err != nil {
		return nil, err
	}
	lines := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		id := i
		line := *p
		line.ID = &id
		b, err := marshal(&line)
		if err != nil {
			return nil, err
		}
		lines = append(lines, append(b, '\n'))
	}

	ctx := r.Context()
	res := NewResponse(http.StatusOK).Add("Content-Type", "application/json")
	res.Body = StreamBody{
		Length: -1,
		Write: func(w StreamWriter) error {
			for i, line := range lines {
				if _, err := w.Write(line); err != nil {
					return err
				}
				if err := w.Flush(); err != nil {
					return err
				}
				if i < len(lines)-1 {
					if err := h.sleep(ctx, h.streamInterval); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	return res, nil
}

func randomBytesParams(r *Request) (int, *seededrand.Source, *Response) {
	n, err := strconv.Atoi(r.Tail)
	if err != nil || n < 0 {
		return 0, nil, errorResponse(http.StatusBadRequest, "Invalid number of bytes")
	}
	if n > maxRandomBytes {
		n = maxRandomBytes
	}
	source, err := seededrand.FromParam(r.Query.Get("seed"))
	if err != nil {
		return 0, nil, errorResponse(http.StatusBadRequest, err.Error())
	}
	return n, source, nil
}

// streamBytes writes n pseudo-random bytes in chunk_size pieces with chunked framing.
func (h *HttpBin) streamBytes(r *Request) (*Response, error) {
	n, source, failure := randomBytesParams(r)
	if failure != nil {
		return failure, nil
	}
	chunkSize, err := chunkSizeParam(r)
	if err != nil || chunkSize < 1 {
		return errorResponse(http.StatusBadRequest, "Invalid chunk_size"), nil
	}
	if chunkSize > n {
		chunkSize = n
	}

	res := NewResponse(http.StatusOK).Add("Content-Type", "application/octet-stream")
	res.Body = StreamBody{
		Length: -1,
		Write: func(w StreamWriter) error {
			chunk := make([]byte, chunkSize)
			for remaining := n; remaining > 0; remaining -= len(chunk) {
				if remaining < len(chunk) {
					chunk = chunk[:remaining]
				}
				source.Fill(chunk)
				if _, err := w.Write(chunk); err != nil {
					return err
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return res, nil
}

// randomBytes returns n pseudo-random bytes with a declared length.
func (h *HttpBin) randomBytes(r *Request) (*Response, error) {
	n, source, failure := randomBytesParams(r)
	if failure != nil {
		return failure, nil
	}
	return contentResponse("application/octet-stream", source.Bytes(n)), nil
}
