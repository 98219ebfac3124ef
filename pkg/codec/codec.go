package codec

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/andybalholm/brotli"
)

// Content codings, as used in the Content-Encoding header.
const (
	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"
	EncodingBrotli  = "br"
)

// Gzip compresses data in the gzip format.
func Gzip(data []byte) ([]byte, error) {
	var b bytes.Buffer
	gz := gzip.NewWriter(&b)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Gunzip decompresses gzip data.
func Gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Deflate compresses data for the "deflate" coding,
// which HTTP defines as the zlib format wrapping a deflate stream.
func Deflate(data []byte) ([]byte, error) {
	var b bytes.Buffer
	zw := zlib.NewWriter(&b)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Inflate decompresses "deflate" coded data.
func Inflate(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Brotli compresses data in the brotli format.
func Brotli(data []byte) ([]byte, error) {
	var b bytes.Buffer
	br := brotli.NewWriter(&b)
	if _, err := br.Write(data); err != nil {
		return nil, err
	}
	if err := br.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnBrotli decompresses brotli data.
func UnBrotli(data []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
}

// Encode compresses data with the named content coding.
func Encode(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case EncodingGzip:
		return Gzip(data)
	case EncodingDeflate:
		return Deflate(data)
	case EncodingBrotli:
		return Brotli(data)
	}
	return nil, ErrUnsupported(encoding)
}

// Decode decompresses data with the named content coding.
func Decode(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case EncodingGzip:
		return Gunzip(data)
	case EncodingDeflate:
		return Inflate(data)
	case EncodingBrotli:
		return UnBrotli(data)
	}
	return nil, ErrUnsupported(encoding)
}

// ErrUnsupported is returned for content codings other than gzip, deflate and br.
type ErrUnsupported string

func (e ErrUnsupported) Error() string {
	return "unsupported content coding: " + string(e)
}
