// Package snapshot writes and reads zstd-compressed copies of a
// stage's record file, for archiving the roughly 10^8-line Stage 1/2
// outputs between pipeline runs. Badger itself links klauspost/compress
// for its value-log compression; this package is the one place outside
// Badger's own internals that this system calls it directly.
package snapshot

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Writer compresses everything written to it and writes the result to
// the wrapped io.Writer. Close must be called to flush the final
// frame.
type Writer struct {
	enc *zstd.Encoder
}

// NewWriter wraps w with a zstd encoder at the default compression
// level.
func NewWriter(w io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Writer{enc: enc}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.enc.Write(p)
}

// Close flushes and closes the underlying encoder.
func (w *Writer) Close() error {
	return w.enc.Close()
}

// Reader decompresses a zstd stream written by Writer.
type Reader struct {
	dec *zstd.Decoder
}

// NewReader wraps r with a zstd decoder.
func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{dec: dec}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.dec.Read(p)
}

// Close releases the decoder's resources.
func (r *Reader) Close() error {
	r.dec.Close()
	return nil
}

// CompressFile reads every byte from src and writes a zstd-compressed
// copy to dst.
func CompressFile(dst io.Writer, src io.Reader) error {
	w, err := NewWriter(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// DecompressFile reads a zstd-compressed stream from src and writes
// the decompressed bytes to dst.
func DecompressFile(dst io.Writer, src io.Reader) error {
	r, err := NewReader(src)
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = io.Copy(dst, r)
	return err
}
