package snapshot

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	want := strings.Repeat("000000000000123 0\n0000000000001a4 1\n", 1000)

	var compressed bytes.Buffer
	w, err := NewWriter(&compressed)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Write([]byte(want)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if compressed.Len() == 0 {
		t.Fatalf("compressed output is empty")
	}

	r, err := NewReader(&compressed)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	got, err := readAll(r)
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(want))
	}
}

func TestCompressFileDecompressFile(t *testing.T) {
	want := "015e00a0c41b002 -1\n"

	var compressed bytes.Buffer
	if err := CompressFile(&compressed, strings.NewReader(want)); err != nil {
		t.Fatalf("CompressFile: %v", err)
	}

	var out bytes.Buffer
	if err := DecompressFile(&out, &compressed); err != nil {
		t.Fatalf("DecompressFile: %v", err)
	}
	if out.String() != want {
		t.Errorf("DecompressFile = %q, want %q", out.String(), want)
	}
}

func readAll(r *Reader) (string, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err != nil {
			if err == io.EOF {
				return buf.String(), nil
			}
			return buf.String(), err
		}
	}
}
