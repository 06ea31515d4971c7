// Package record implements the line-oriented stage I/O this pipeline's
// stages use to pass boards between each other: the `board depth` /
// `board depth idx` record format of spec section 6, and the nested
// DAG text format Stage 3 emits. It plays the role the teacher's
// internal/uci package plays for its engine: a single external channel
// (here, a stage's stdin/stdout, there, the UCI stdin loop), scanned
// line by line so a stage never holds the whole input in memory.
package record

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mame/dobutsu/internal/board"
)

// Record is one parsed input line: a board, its classification/depth,
// and an optional move index (0 when the line carried only two
// fields).
type Record struct {
	Board board.Board
	Depth int32
	Idx   int32
}

// Reader scans "%015x %d\n" or "%015x %d %d\n" lines, the format Stage
// 1 and Stage 2 write and Stage 2 and Stage 3 read.
type Reader struct {
	sc *bufio.Scanner
}

// NewReader wraps r for line-by-line record scanning.
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Next returns the next record, or ok=false at end of input. A
// malformed line is reported as an error rather than silently skipped.
func (r *Reader) Next() (rec Record, ok bool, err error) {
	if !r.sc.Scan() {
		return Record{}, false, r.sc.Err()
	}
	line := r.sc.Text()
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Record{}, false, fmt.Errorf("record: malformed line %q: want at least 2 fields", line)
	}
	key, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		return Record{}, false, fmt.Errorf("record: bad board field %q: %w", fields[0], err)
	}
	depth, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return Record{}, false, fmt.Errorf("record: bad depth field %q: %w", fields[1], err)
	}
	var idx int64
	if len(fields) >= 3 {
		idx, err = strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return Record{}, false, fmt.Errorf("record: bad index field %q: %w", fields[2], err)
		}
	}
	return Record{Board: board.Board(key), Depth: int32(depth), Idx: int32(idx)}, true, nil
}

// Each calls f for every record in the input, stopping at the first
// error (returned to the caller) or at end of input.
func (r *Reader) Each(f func(Record)) error {
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		f(rec)
	}
}

// Writer writes the same two/three-field record format Reader parses.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w for buffered record output. Flush must be called
// before the program exits.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteRecord writes a "%015x %d\n" line.
func (w *Writer) WriteRecord(b board.Board, depth int32) error {
	_, err := fmt.Fprintf(w.bw, "%015x %d\n", uint64(b), depth)
	return err
}

// WriteRecordIdx writes a "%015x %d %d\n" line.
func (w *Writer) WriteRecordIdx(b board.Board, depth, idx int32) error {
	_, err := fmt.Fprintf(w.bw, "%015x %d %d\n", uint64(b), depth, idx)
	return err
}

// Flush flushes any buffered output.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
