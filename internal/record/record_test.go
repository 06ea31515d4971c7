package record

import (
	"bytes"
	"testing"

	"github.com/mame/dobutsu/internal/board"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteRecord(board.Init(), -1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRecordIdx(board.Board(0xabc), 5, 2); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	rec1, ok, err := r.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v, %v", rec1, ok, err)
	}
	if rec1.Board != board.Init() || rec1.Depth != -1 {
		t.Errorf("rec1 = %+v, want Board=Init Depth=-1", rec1)
	}
	rec2, ok, err := r.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v, %v", rec2, ok, err)
	}
	if rec2.Board != board.Board(0xabc) || rec2.Depth != 5 || rec2.Idx != 2 {
		t.Errorf("rec2 = %+v, want {0xabc 5 2}", rec2)
	}
	_, ok, err = r.Next()
	if ok || err != nil {
		t.Errorf("Next() at EOF = ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestReaderRejectsMalformedLine(t *testing.T) {
	r := NewReader(bytes.NewBufferString("not-a-record\n"))
	_, ok, err := r.Next()
	if ok || err == nil {
		t.Errorf("Next() on malformed line = ok=%v err=%v, want ok=false, err!=nil", ok, err)
	}
}

func TestEachVisitsAllRecords(t *testing.T) {
	input := "000000000000001 1\n000000000000000 0\n000000000000002 -1\n"
	r := NewReader(bytes.NewBufferString(input))
	var got []Record
	if err := r.Each(func(rec Record) { got = append(got, rec) }); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("Each visited %d records, want 3", len(got))
	}
	if got[0].Depth != 1 || got[1].Depth != 0 || got[2].Depth != -1 {
		t.Errorf("depths = %v, want [1 0 -1]", []int32{got[0].Depth, got[1].Depth, got[2].Depth})
	}
}

func TestDAGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewDAGWriter(&buf)
	if err := w.WriteRoot([]int32{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteNodeHeader(board.Board(0x1), 5, 0); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteMoveLine(2, []int32{1}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBlankLine(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteNodeHeader(board.Board(0x2), 7, 1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteMoveLine(0, nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBlankLine(); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	dr := NewDAGReader(&buf)
	var got []Record
	if err := dr.Each(func(rec Record) { got = append(got, rec) }); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Each visited %d triples, want 2", len(got))
	}
	if got[0].Board != board.Board(0x1) || got[0].Depth != 5 || got[0].Idx != 2 {
		t.Errorf("got[0] = %+v, want {0x1 5 2}", got[0])
	}
	if got[1].Board != board.Board(0x2) || got[1].Depth != 7 || got[1].Idx != 0 {
		t.Errorf("got[1] = %+v, want {0x2 7 0}", got[1])
	}
}

func TestDAGReaderSkipsRootLine(t *testing.T) {
	input := " 0 1\n000000000000003 9 0\n 1: 0\n\n"
	dr := NewDAGReader(bytes.NewBufferString(input))
	rec, ok, err := dr.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v, %v", rec, ok, err)
	}
	if rec.Board != board.Board(0x3) || rec.Depth != 9 || rec.Idx != 1 {
		t.Errorf("rec = %+v, want {0x3 9 1}", rec)
	}
}
