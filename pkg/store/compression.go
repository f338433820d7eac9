package store

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame header every zstd stream starts with
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// source is an ingestion input that may be wrapped in a zstd decoder
type source struct {
	io.Reader
	file    *os.File
	decoder *zstd.Decoder
}

// Close releases the decoder and the underlying file
func (s *source) Close() error {
	if s.decoder != nil {
		s.decoder.Close()
	}
	return s.file.Close()
}

// openSource opens path for reading. Zstd-compressed files are detected by
// their magic number and decompressed on the fly.
func openSource(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	br := bufio.NewReader(file)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !bytes.Equal(head, zstdMagic) {
		return &source{Reader: br, file: file}, nil
	}

	decoder, err := zstd.NewReader(br)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &source{Reader: decoder, file: file, decoder: decoder}, nil
}
