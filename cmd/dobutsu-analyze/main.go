// Command dobutsu-analyze is Stage 2 of the solver pipeline: retrograde
// (backward) analysis that assigns every board a depth, using Stage 1's
// output as input.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/mame/dobutsu/internal/board"
	"github.com/mame/dobutsu/internal/boardset"
	"github.com/mame/dobutsu/internal/checkpoint"
	"github.com/mame/dobutsu/internal/pipeline"
	"github.com/mame/dobutsu/internal/record"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

const (
	progressEvery   = 10000000
	checkpointEvery = 5
	checkpointDir   = "./dobutsu-checkpoint"
)

// state mirrors the original tool's State struct: the live frontier
// being promoted this iteration, the frontier being constructed for
// the next, and the two sets partitioning every board Stage 1 saw.
type state struct {
	prevBoards []board.Board
	nextBoards []board.Board
	fixed      *boardset.Set
	unfixed    *boardset.Set
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
	logger.Print("Step 2: perform retrospective analysis")

	cp, err := checkpoint.Open(checkpointDir)
	if err != nil {
		log.Fatalf("could not open checkpoint store: %v", err)
	}

	w := record.NewWriter(os.Stdout)
	s, startDepth := load(logger, cp)
	initBoard := board.Init().Normalize()

	var boardCounts [2]int
	initDepth := 0
	depth := startDepth

	if startDepth == 0 {
		for _, b := range s.prevBoards {
			if err := w.WriteRecord(b, 0); err != nil {
				log.Fatalf("write failed: %v", err)
			}
		}
	}

	for len(s.prevBoards) > 0 || depth == 0 {
		boardCounts[depth%2] += len(s.prevBoards)

		logger.Printf("analyzing... (depth-%d boards: %s, unfixed boards: %s)",
			depth, pipeline.Comma(len(s.prevBoards)), pipeline.Comma(s.unfixed.Len()))

		enumerateNextBoards(&s, int32(depth))

		for _, b := range s.nextBoards {
			s.fixed.Insert(b)
			s.unfixed.Delete(b)
			if err := w.WriteRecord(b, int32(depth+1)); err != nil {
				log.Fatalf("write failed: %v", err)
			}
			if b == initBoard {
				initDepth = depth + 1
			}
		}

		s.unfixed.Resize(s.unfixed.Len())

		s.prevBoards = s.nextBoards
		s.nextBoards = nil
		depth++

		if depth%checkpointEvery == 0 {
			frontier := boardset.NewSet()
			for _, b := range s.prevBoards {
				frontier.Insert(b)
			}
			if err := cp.SaveUnfixed(s.unfixed); err != nil {
				log.Fatalf("checkpoint save failed: %v", err)
			}
			if err := cp.SaveFixed(s.fixed); err != nil {
				log.Fatalf("checkpoint save failed: %v", err)
			}
			if err := cp.SaveFrontier(frontier); err != nil {
				log.Fatalf("checkpoint save failed: %v", err)
			}
			if err := cp.SaveMeta(checkpoint.Meta{Depth: int32(depth), FixedCount: s.fixed.Len()}); err != nil {
				log.Fatalf("checkpoint save failed: %v", err)
			}
		}
	}

	s.unfixed.Each(func(b board.Board) {
		if err := w.WriteRecord(b, -1); err != nil {
			log.Fatalf("write failed: %v", err)
		}
	})

	if err := w.Flush(); err != nil {
		log.Fatalf("flush failed: %v", err)
	}

	if err := cp.RemoveAll(); err != nil {
		log.Printf("warning: could not remove checkpoint: %v", err)
	}

	logger.Print("Step 2: result")
	logger.Printf("  black-winning boards: %9s", pipeline.Comma(boardCounts[0]))
	logger.Printf("  white-winning boards: %9s", pipeline.Comma(boardCounts[1]))
	logger.Printf("  draw                : %9s", pipeline.Comma(s.unfixed.Len()))
	logger.Printf("  max depth : %3d", depth-1)
	logger.Printf("  init depth: %3d", initDepth)
	logger.Print("Step 2: done!")
}

// load reads Stage 1's output into a fresh state, unless a checkpoint
// from an interrupted prior run exists, in which case it resumes from
// there instead and returns the depth to resume at.
func load(logger *log.Logger, cp *checkpoint.Store) (state, int) {
	if has, err := cp.HasCheckpoint(); err == nil && has {
		unfixed, err1 := cp.LoadUnfixed()
		fixed, err2 := cp.LoadFixed()
		frontier, err3 := cp.LoadFrontier()
		meta, ok, err4 := cp.LoadMeta()
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil && ok {
			logger.Printf("resuming from checkpoint (depth: %d, fixed: %s, unfixed: %s)",
				meta.Depth, pipeline.Comma(fixed.Len()), pipeline.Comma(unfixed.Len()))
			var prevBoards []board.Board
			frontier.Each(func(b board.Board) { prevBoards = append(prevBoards, b) })
			return state{
				fixed:      fixed,
				unfixed:    unfixed,
				prevBoards: prevBoards,
			}, int(meta.Depth)
		}
	}

	s := state{fixed: boardset.NewSet(), unfixed: boardset.NewSet()}

	logProgress := func(msg string) {
		logger.Printf("%s (unfixed: %s, fixed: %s, total: %s)",
			msg, pipeline.Comma(s.unfixed.Len()), pipeline.Comma(s.fixed.Len()), pipeline.Comma(s.unfixed.Len()+s.fixed.Len()))
	}

	r := record.NewReader(os.Stdin)
	if err := r.Each(func(rec record.Record) {
		if rec.Depth == 0 {
			s.fixed.Insert(rec.Board)
			s.prevBoards = append(s.prevBoards, rec.Board)
		} else {
			s.unfixed.Insert(rec.Board)
			if rec.Depth == 1 {
				s.nextBoards = append(s.nextBoards, rec.Board)
			}
		}
		if (s.fixed.Len()+s.unfixed.Len())%progressEvery == 0 {
			logProgress("loading...")
		}
	}); err != nil {
		log.Fatalf("read failed: %v", err)
	}
	logProgress("loaded!")

	return s, 0
}

// check applies the odd/even admission rule, where depth is the
// frontier depth N and the candidate b would be fixed at N+1. When N
// is odd (b at an even depth, the losing side to move), b is admitted
// only if every successor is already fixed, so the defender has no
// move left to an unfixed position. When N is even (b at an odd
// depth, the winning side to move), b is admitted unconditionally:
// reaching one depth-N board is enough. A Win or Lose candidate has no
// successors to test and is always admitted.
func check(fixed *boardset.Set, b board.Board, depth int32, nextBoards *[]board.Board) {
	if depth%2 != 0 {
		r := b.Next()
		if r.Outcome == board.Unknown {
			for _, nb := range r.Successors {
				if !fixed.Contains(nb) {
					return
				}
			}
		}
	}
	*nextBoards = append(*nextBoards, b)
}

// enumerateNextBoards identifies every depth-N board reachable from
// the depth-(N-1) frontier, picking whichever of the two strategies
// the cost heuristic favors: walking backward from the frontier via
// Prev, or filtering forward over the full unfixed set via Next.
func enumerateNextBoards(s *state, depth int32) {
	if len(s.prevBoards)*4 < s.unfixed.Len() {
		visited := boardset.NewSet()
		for _, b := range s.prevBoards {
			for _, pb := range b.Prev() {
				if !s.unfixed.Contains(pb) {
					continue
				}
				if visited.Contains(pb) {
					continue
				}
				visited.Insert(pb)
				check(s.fixed, pb, depth, &s.nextBoards)
			}
		}
		return
	}

	prevSet := boardset.NewSet()
	for _, pb := range s.prevBoards {
		prevSet.Insert(pb)
	}
	s.unfixed.Each(func(b board.Board) {
		r := b.Next()
		if r.Outcome != board.Unknown {
			return
		}
		for _, nb := range r.Successors {
			if prevSet.Contains(nb) {
				check(s.fixed, b, depth, &s.nextBoards)
				return
			}
		}
	})
}
