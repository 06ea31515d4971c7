package record

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mame/dobutsu/internal/board"
)

// DAGWriter writes the Stage 3 DAG text format: one line listing the
// root's move successors by name, then for each named (odd-depth)
// board in descending-depth order, a block giving its own header line
// followed by one line per move, each listing the grandchild names
// reachable through that move, then a blank line.
type DAGWriter struct {
	bw *bufio.Writer
}

// NewDAGWriter wraps w for buffered DAG output.
func NewDAGWriter(w io.Writer) *DAGWriter {
	return &DAGWriter{bw: bufio.NewWriter(w)}
}

// WriteRoot writes the first line: the root board's successor names,
// each prefixed by a space, terminated by a newline.
func (d *DAGWriter) WriteRoot(names []int32) error {
	for _, n := range names {
		if _, err := fmt.Fprintf(d.bw, " %d", n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(d.bw, "\n")
	return err
}

// WriteNodeHeader writes a named board's header line.
func (d *DAGWriter) WriteNodeHeader(b board.Board, depth, name int32) error {
	_, err := fmt.Fprintf(d.bw, "%015x %d %d\n", uint64(b), depth, name)
	return err
}

// WriteMoveLine writes one move line: the move's index into the
// board's Next() successor list, followed by the names of every
// grandchild reachable through it.
func (d *DAGWriter) WriteMoveLine(idx int, childNames []int32) error {
	if _, err := fmt.Fprintf(d.bw, " %d:", idx); err != nil {
		return err
	}
	for _, n := range childNames {
		if _, err := fmt.Fprintf(d.bw, " %d", n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(d.bw, "\n")
	return err
}

// WriteBlankLine terminates a node's block.
func (d *DAGWriter) WriteBlankLine() error {
	_, err := fmt.Fprintf(d.bw, "\n")
	return err
}

// Flush flushes any buffered output.
func (d *DAGWriter) Flush() error {
	return d.bw.Flush()
}

// DAGReader reads a Stage 3 DAG file back as the flattened
// (board, depth, move-index) triples Stage 9 checks, the same
// contract 9-test.rs's input parser expects: for each named board's
// header line it takes the board and depth directly, and reads the
// move index from the first move line immediately following the
// header (picking the first of any tied best moves as the
// representative one to verify). The root line and any line that
// starts with a space outside of that lookahead are otherwise skipped.
type DAGReader struct {
	sc *bufio.Scanner
}

// NewDAGReader wraps r for DAG-format scanning.
func NewDAGReader(r io.Reader) *DAGReader {
	return &DAGReader{sc: bufio.NewScanner(r)}
}

// Next returns the next (board, depth, idx) triple, or ok=false at end
// of input.
func (d *DAGReader) Next() (rec Record, ok bool, err error) {
	for d.sc.Scan() {
		line := d.sc.Text()
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return Record{}, false, fmt.Errorf("record: malformed DAG header %q", line)
		}
		key, err := strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			return Record{}, false, fmt.Errorf("record: bad board field %q: %w", fields[0], err)
		}
		depth, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return Record{}, false, fmt.Errorf("record: bad depth field %q: %w", fields[1], err)
		}
		idx := int32(0)
		if d.sc.Scan() {
			moveLine := strings.TrimSpace(d.sc.Text())
			if moveLine != "" {
				head, _, _ := strings.Cut(moveLine, ":")
				if v, err := strconv.ParseInt(strings.TrimSpace(head), 10, 32); err == nil {
					idx = int32(v)
				}
			}
		}
		return Record{Board: board.Board(key), Depth: int32(depth), Idx: idx}, true, nil
	}
	return Record{}, false, d.sc.Err()
}

// Each calls f for every triple in the input, stopping at the first
// error (returned to the caller) or at end of input.
func (d *DAGReader) Each(f func(Record)) error {
	for {
		rec, ok, err := d.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		f(rec)
	}
}
