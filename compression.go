package polyld

import (
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression indicates how (and whether) an input file is compressed.
type Compression uint32

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZStandard
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZStandard:
		return "zstd"

	default:
		return "Illegal selection"
	}
}

// decompressor wraps r in the decompressor implied by path's extension.
func decompressor(r io.Reader, path string) (io.Reader, Compression, error) {
	switch {
	case strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".bgz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, CompressionGzip, pfx.Err(err)
		}
		return zr, CompressionGzip, nil

	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, CompressionZStandard, pfx.Err(err)
		}
		return zr.IOReadCloser(), CompressionZStandard, nil
	}

	return r, CompressionNone, nil
}

// maybeCompressedFile keeps the underlying file reachable so that Close
// releases it even when reads go through a decompressor.
type maybeCompressedFile struct {
	io.Reader
	closer io.Closer
}

func (f *maybeCompressedFile) Close() error {
	return f.closer.Close()
}

// openMaybeCompressed opens path for reading, transparently decompressing
// gzip or zstandard content by filename extension.
func openMaybeCompressed(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r, _, err := decompressor(file, path)
	if err != nil {
		file.Close()
		return nil, pfx.Err(err)
	}

	return &maybeCompressedFile{Reader: r, closer: file}, nil
}
