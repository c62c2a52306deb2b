package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// readBody reads whole body, limited to maxSize bytes if maxSize > 0
func readBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > maxSize {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// decode unpacks body according to Content-Encoding. Any decoder failure reported as errBadEncoding.
func decode(encoding string, raw []byte, maxSize int64) ([]byte, error) {
	if len(raw) == 0 {
		return raw, nil // nothing to unpack whatever the encoding
	}
	var rd io.Reader
	switch enc := strings.ToLower(strings.TrimSpace(encoding)); enc {
	case "", "identity":
		return raw, nil
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip, %v", errBadEncoding, err)
		}
		defer gz.Close()
		rd = gz
	case "deflate":
		// deflate is zlib-wrapped per rfc, but raw deflate streams are common too
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			if !errors.Is(err, zlib.ErrHeader) {
				return nil, fmt.Errorf("%w: deflate, %v", errBadEncoding, err)
			}
			fr := flate.NewReader(bytes.NewReader(raw))
			defer fr.Close()
			rd = fr
			break
		}
		defer zr.Close()
		rd = zr
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(raw), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd, %v", errBadEncoding, err)
		}
		defer zr.Close()
		rd = zr
	default:
		return nil, fmt.Errorf("%w %q", errBadEncoding, enc)
	}

	data, err := readBody(rd, maxSize)
	if errors.Is(err, errBodyTooLarge) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s, %v", errBadEncoding, encoding, err)
	}
	return data, nil
}
