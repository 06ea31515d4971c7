// Command dobutsu-extract is Stage 3 of the solver pipeline: it walks
// the reachable game tree once more, keeps only the best (depth-minus-one)
// replies at each forced-win node, and emits the resulting DAG in the
// compact named-node format dobutsu-verify checks.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"sort"

	"github.com/mame/dobutsu/internal/board"
	"github.com/mame/dobutsu/internal/boardset"
	"github.com/mame/dobutsu/internal/pipeline"
	"github.com/mame/dobutsu/internal/record"
	"github.com/mame/dobutsu/internal/snapshot"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	compress   = flag.String("compress", "", "optionally write a zstd-compressed copy of the DAG to this path")
)

const progressEvery = 1000000

// move pairs a kept successor with its position in the board's
// unfiltered Next().Successors list, the index dobutsu-verify must
// replay against that same unfiltered list to find the reply.
type move struct {
	idx int
	b   board.Board
}

// node is one board kept in the extracted DAG: the board itself, its
// retrograde depth, the subset of Next's successors worth recording
// (paired with their original successor-list index), and (once
// assigned) its sequential output name.
type node struct {
	b       board.Board
	depth   int32
	next    []move
	name    int32
	hasName bool
}

// stats accumulates the summary figures the original tool reports
// after a full extraction pass.
type stats struct {
	allInHands int
	endInHands int
	minDegree  int
	maxDegree  int
	maxHands   int
}

// checkHopeless reports whether the (board, successor) pair is one of
// the two known branches where the oracle's best-move filter would
// otherwise keep a move that in fact leads nowhere useful: a
// hand-verified quirk of the retrograde analysis that must be special
// cased rather than "fixed", since the DAG this pipeline has always
// produced relies on these exact two pairs being skipped.
func checkHopeless(b, nb board.Board) bool {
	if uint64(b) == 0x000a9030c41b002 && uint64(nb) == 0x400a00390c0b012 {
		return true
	}
	if uint64(b) == 0x000a0030c41b902 && uint64(nb) == 0x400a01390c0b002 {
		return true
	}
	return false
}

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	logger := pipeline.NewLogger()
	logger.Print("Step 3: extract the DAG of best moves")

	oracle := loadOracle(logger)
	initBoard := board.Init().Normalize()

	nodes, st := extract(logger, oracle, initBoard)

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].depth > nodes[j].depth })

	out := io.Writer(os.Stdout)
	if *compress != "" {
		cf, err := os.Create(*compress)
		if err != nil {
			log.Fatalf("could not create compressed output: %v", err)
		}
		defer cf.Close()
		zw, err := snapshot.NewWriter(cf)
		if err != nil {
			log.Fatalf("could not open zstd writer: %v", err)
		}
		defer zw.Close()
		out = io.MultiWriter(os.Stdout, zw)
	}

	if err := output(out, initBoard, nodes); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	logger.Print("Step 3: result")
	logger.Printf("  nodes          : %9s", pipeline.Comma(len(nodes)))
	logger.Printf("  all-in-hands   : %9s", pipeline.Comma(st.allInHands))
	logger.Printf("  end-in-hands   : %9s", pipeline.Comma(st.endInHands))
	logger.Printf("  min out-degree : %9d", st.minDegree)
	logger.Printf("  max out-degree : %9d", st.maxDegree)
	logger.Printf("  max hands      : %9d", st.maxHands)
	logger.Print("Step 3: done!")
}

// loadOracle reads Stage 2's full depth assignment for every reachable
// board into memory, the same way 3-extract.rs's load builds its
// board->depth map before extraction can consult it.
func loadOracle(logger *log.Logger) *boardset.Map {
	oracle := boardset.NewMap()
	r := record.NewReader(os.Stdin)
	count := 0
	if err := r.Each(func(rec record.Record) {
		oracle.Put(rec.Board, rec.Depth)
		count++
		if count%progressEvery == 0 {
			logger.Printf("loading oracle... (%s boards)", pipeline.Comma(count))
		}
	}); err != nil {
		log.Fatalf("read failed: %v", err)
	}
	logger.Printf("oracle loaded (%s boards)", pipeline.Comma(count))
	return oracle
}

// handSum sums b's own elephant/giraffe/chick hand counts (the pieces
// that matter for the all-in-hands/end-in-hands figures; the lion can
// never sit in hand).
func handSum(b board.Board) int {
	total := 0
	for _, p := range []board.Piece{board.Elephant, board.Giraffe, board.Chick} {
		total += int(b.Hand(p))
	}
	return total
}

// extract performs the Stage 3 DFS: starting from initBoard, it walks
// every oracle-classified board exactly once, keeping for each the
// subset of Next's successors that are themselves best replies (all of
// them, for an even/black depth; only the depth-minus-one ones, for an
// odd/white depth), skipping any successor checkHopeless flags.
func extract(logger *log.Logger, oracle *boardset.Map, initBoard board.Board) ([]node, stats) {
	st := stats{minDegree: 64}
	visited := boardset.NewSet()
	nodes := make(map[board.Board]*node)

	stack := []board.Board{initBoard}
	count := 0
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(b) {
			continue
		}
		visited.Insert(b)

		depth, ok := oracle.Get(b)
		if !ok {
			log.Fatalf("board %015x missing from oracle", uint64(b))
		}

		h1 := handSum(b)
		rb := b.Reverse()
		h2 := handSum(rb)
		if h1 == 6 || h2 == 6 {
			st.allInHands++
			if rb.Next().Outcome == board.Win {
				st.endInHands++
			}
		}
		if m := h1; m > st.maxHands {
			st.maxHands = m
		}
		if m := h2; m > st.maxHands {
			st.maxHands = m
		}

		r := b.Next()
		if r.Outcome == board.Unknown {
			if len(r.Successors) < st.minDegree {
				st.minDegree = len(r.Successors)
			}
			if len(r.Successors) > st.maxDegree {
				st.maxDegree = len(r.Successors)
			}

			var kept []move
			for i, nb := range r.Successors {
				if depth%2 != 0 {
					if nd, ok := oracle.Get(nb); !ok || nd != depth-1 {
						continue
					}
				}
				if checkHopeless(b, nb) {
					continue
				}
				kept = append(kept, move{idx: i, b: nb})
			}

			nodes[b] = &node{b: b, depth: depth, next: kept}

			for _, mv := range kept {
				stack = append(stack, mv.b)
			}
		}

		count++
		if count%progressEvery == 0 {
			logger.Printf("extracting... (%s boards visited)", pipeline.Comma(count))
		}
	}

	out := make([]node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, *n)
	}
	return out, st
}

// output assigns sequential names to every odd-depth node (so deeper
// nodes can reference them as move targets, whether or not the node
// itself is printed as a block), writes the root's successor names,
// then writes one block per odd-depth node with depth > 3 in
// descending-depth order.
func output(w_ io.Writer, initBoard board.Board, nodes []node) error {
	byBoard := make(map[board.Board]*node, len(nodes))
	for i := range nodes {
		byBoard[nodes[i].b] = &nodes[i]
	}

	var nextName int32
	for i := range nodes {
		if nodes[i].depth%2 != 0 {
			nodes[i].name = nextName
			nodes[i].hasName = true
			nextName++
		}
	}

	w := record.NewDAGWriter(w_)

	root, ok := byBoard[initBoard]
	if !ok {
		return nil
	}
	var rootNames []int32
	for _, mv := range root.next {
		if child, ok := byBoard[mv.b]; ok && child.hasName {
			rootNames = append(rootNames, child.name)
		}
	}
	if err := w.WriteRoot(rootNames); err != nil {
		return err
	}

	for i := range nodes {
		n := &nodes[i]
		if n.depth%2 == 0 || !n.hasName || n.depth <= 3 {
			continue
		}
		if err := w.WriteNodeHeader(n.b, n.depth, n.name); err != nil {
			return err
		}
		for _, mv := range n.next {
			blackNode, ok := byBoard[mv.b]
			if !ok {
				continue
			}
			var grandchildren []int32
			for _, gc := range blackNode.next {
				if child, ok := byBoard[gc.b]; ok && child.hasName {
					grandchildren = append(grandchildren, child.name)
				}
			}
			if err := w.WriteMoveLine(mv.idx, grandchildren); err != nil {
				return err
			}
		}
		if err := w.WriteBlankLine(); err != nil {
			return err
		}
	}

	return w.Flush()
}
