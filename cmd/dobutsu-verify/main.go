// Command dobutsu-verify is Stage 9 of the solver pipeline: it replays
// Stage 3's extracted DAG against the board rules from scratch and
// fails loudly the moment the DAG's claims and the rules disagree.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/mame/dobutsu/internal/board"
	"github.com/mame/dobutsu/internal/pipeline"
	"github.com/mame/dobutsu/internal/record"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

// initialBudget bounds how many plies a verified line may run before
// the DAG is considered to have failed to terminate the defense.
const initialBudget = 78

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
	logger.Print("Step 9: verify the extracted DAG")

	nodes := loadNodes(logger)

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	visited := 0
	init := board.Init().Normalize()
	r := init.Next()
	if r.Outcome != board.Unknown {
		log.Fatalf("initial position is already terminal")
	}

	for _, b := range r.Successors {
		visit(w, nodes, b, initialBudget, &visited)
	}

	logger.Printf("Step 9: result")
	logger.Printf("  boards visited: %9s", pipeline.Comma(visited))
	logger.Print("Step 9: done!")
}

type dagNode struct {
	idx   int32
	depth int32
}

// loadNodes reads Stage 3's DAG output into the flattened
// board->(move index, depth) lookup visit consults, using the same
// header-plus-first-move-line reading DAGReader performs. The DAG only
// ever holds a tiny fraction of the full reachable state space, so a
// plain Go map is the right tool here, unlike the earlier stages'
// full-state-space sets and maps.
func loadNodes(logger *log.Logger) map[board.Board]dagNode {
	nodes := make(map[board.Board]dagNode)
	r := record.NewDAGReader(os.Stdin)
	if err := r.Each(func(rec record.Record) {
		nodes[rec.Board] = dagNode{idx: rec.Idx, depth: rec.Depth}
	}); err != nil {
		log.Fatalf("read failed: %v", err)
	}
	logger.Printf("loaded %s DAG nodes", pipeline.Comma(len(nodes)))
	return nodes
}

// visit walks one line of defense: b is a board where the side to move
// is the one the DAG claims has a forced win, so unless b is easy it
// must be a DAG node whose recorded move index is played here; every
// reply the defender can make to that move is then visited in turn.
// budget bounds b's recorded depth, which must be strictly below it;
// the replies are visited with b's own depth as their budget.
func visit(w *bufio.Writer, nodes map[board.Board]dagNode, b board.Board, budget int32, visited *int) {
	fmt.Fprintf(w, "%015x\n", uint64(b))
	*visited++

	if b.Easy() {
		return
	}

	n, ok := nodes[b]
	if !ok {
		log.Fatalf("board %015x not found in DAG", uint64(b))
	}

	if n.depth >= budget {
		log.Fatalf("board %015x exceeded budget: depth %d >= budget %d", uint64(b), n.depth, budget)
	}

	r := b.Next()
	if r.Outcome != board.Unknown {
		log.Fatalf("board %015x is terminal, expected an open position", uint64(b))
	}
	if int(n.idx) >= len(r.Successors) {
		log.Fatalf("board %015x move index %d out of range (%d successors)", uint64(b), n.idx, len(r.Successors))
	}

	reply := r.Successors[n.idx]
	rr := reply.Next()
	for _, nb := range rr.Successors {
		visit(w, nodes, nb, n.depth, visited)
	}
}

