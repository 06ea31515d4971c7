// Command dobutsu-enumerate is Stage 1 of the solver pipeline: a
// straightforward DFS from the initial position over every reachable
// board, emitting each board's immediate classification.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/mame/dobutsu/internal/board"
	"github.com/mame/dobutsu/internal/boardset"
	"github.com/mame/dobutsu/internal/pipeline"
	"github.com/mame/dobutsu/internal/record"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

const progressEvery = 10000000

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
	logger.Print("Step 1: enumerate all reachable boards")

	w := record.NewWriter(os.Stdout)
	visited := boardset.NewSet()

	var itemCounts [3]int // index 0 = winning, 1 = losing, 2 = unknown
	maxDegree := 0

	stack := []board.Board{board.Init().Normalize()}
	progress := pipeline.NewProgress(progressEvery, func(count int) {
		total := itemCounts[0] + itemCounts[1] + itemCounts[2]
		logger.Printf("enumerating... (winning: %s, losing: %s, unknown: %s, total: %s)",
			pipeline.Comma(itemCounts[0]), pipeline.Comma(itemCounts[1]), pipeline.Comma(itemCounts[2]), pipeline.Comma(total))
	})

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(b) {
			continue
		}
		visited.Insert(b)

		var depth int32
		r := b.Next()
		switch r.Outcome {
		case board.Win:
			depth = 1
		case board.Lose:
			depth = 0
		case board.Unknown:
			depth = -1
			if len(r.Successors) > maxDegree {
				maxDegree = len(r.Successors)
			}
			stack = append(stack, r.Successors...)
		}

		if err := w.WriteRecord(b, depth); err != nil {
			log.Fatalf("write failed: %v", err)
		}

		itemCounts[1-depth]++
		progress.Tick()
	}

	if err := w.Flush(); err != nil {
		log.Fatalf("flush failed: %v", err)
	}

	total := itemCounts[0] + itemCounts[1] + itemCounts[2]
	logger.Print("Step 1: result")
	logger.Printf("  winning board#: %9s", pipeline.Comma(itemCounts[0]))
	logger.Printf("  losing board# : %9s", pipeline.Comma(itemCounts[1]))
	logger.Printf("  unknown board#: %9s", pipeline.Comma(itemCounts[2]))
	logger.Printf("  total         : %9s", pipeline.Comma(total))
	logger.Printf("  max degree: %d", maxDegree)
	logger.Print("Step 1: done!")
}
