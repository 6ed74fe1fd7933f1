package rewrite

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"errors"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

var ErrEncodingNotSupported = errors.New("content-encoding not supported")

// Decode undoes a Content-Encoding so the body can be parsed. Identity and
// empty encodings return body unchanged.
func Decode(enc string, body []byte) ([]byte, error) {
	enc = strings.ToLower(strings.TrimSpace(enc))
	if len(body) == 0 || enc == "" || enc == "identity" {
		return body, nil
	}

	switch enc {
	case "gzip", "x-gzip":
		dreader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer dreader.Close()
		return io.ReadAll(dreader)
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
	case "deflate":
		dreader := flate.NewReader(bytes.NewReader(body))
		defer dreader.Close()
		return io.ReadAll(dreader)
	case "zstd":
		dreader, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer dreader.Close()
		return io.ReadAll(dreader)
	}

	return nil, ErrEncodingNotSupported
}
