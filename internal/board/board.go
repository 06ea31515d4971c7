package board

import "strings"

// Board packs a full game position into a single uint64: twelve board
// cells (3 files x 4 ranks) at four bits each occupy the low 48 bits,
// and two 6-bit hand areas holding captured-piece counts (two bits per
// droppable kind) occupy bits 48-53 (side to move) and 54-59
// (opponent), so every board fits in 60 bits. A Board is always stored from the perspective of the
// side to move: Next produces successors already reoriented so the
// returned positions are again side-to-move relative, and canonically
// reduced by Normalize so a position and its file-mirror compare equal.
type Board uint64

func cellShift(x, y int8) uint {
	return uint((x*4 + y) * 4)
}

// Get returns the piece occupying (x, y), where x in [0,3) is the file
// and y in [0,4) is the rank, rank 0 being the side to move's back rank.
func (b Board) Get(x, y int8) Piece {
	return Piece((uint64(b) >> cellShift(x, y)) & 0xf)
}

// Put overlays p into (x, y). The cell must already be empty; Put does
// not clear it first.
func (b Board) Put(x, y int8, p Piece) Board {
	return b | Board(uint64(p)<<cellShift(x, y))
}

// Del clears (x, y) to Empty.
func (b Board) Del(x, y int8) Board {
	return b &^ (Board(0xf) << cellShift(x, y))
}

func handShift(p Piece) uint {
	if p < 8 {
		return uint(44 + p*2)
	}
	return uint(34 + p*2)
}

// Hand returns the count (0-3) of piece kind p held captured. p's side
// bit selects which of the two hand areas is read.
func (b Board) Hand(p Piece) int8 {
	return int8((uint64(b) >> handShift(p)) & 3)
}

// IncHand adds one captured piece of kind p to the side-to-move's hand.
// p must be Elephant, Giraffe, Chick, or Hen; a captured Hen is stored
// as a Chick, since a hen reverts to chick rank when dropped back in.
func (b Board) IncHand(p Piece) Board {
	if p == Hen {
		p = Chick
	}
	return Board(uint64(b) + (1 << (44 + p*2)))
}

// DecHand removes one captured piece of kind p from the side-to-move's
// hand. p must be Elephant, Giraffe, or Chick.
func (b Board) DecHand(p Piece) Board {
	return Board(uint64(b) - (1 << (44 + p*2)))
}

const (
	fileLowMask  = 0x0000ffff0000
	fileHighMask = 0xffff00000000
	handsMask    = 0xfff000000000000
)

// Normalize reduces b to the lexicographically smaller of itself and
// its file-0/file-2 mirror, so that mirror-equivalent positions always
// hash and compare identically.
func (b Board) Normalize() Board {
	mirrored := Board(
		((uint64(b) & fileHighMask) >> 32) |
			(uint64(b) & fileLowMask) |
			((uint64(b) & 0x0000ffff) << 32) |
			(uint64(b) & handsMask),
	)
	if b < mirrored {
		return b
	}
	return mirrored
}

// Reverse swaps perspective: the two hand areas trade places, every
// occupied cell moves to its rank-mirrored position (y -> 3-y), and
// every piece's side bit flips. Applying Reverse after a move turns a
// board generated from "my" perspective back into "their" perspective
// as the side to move, the standard orientation this package stores
// positions in.
func (b Board) Reverse() Board {
	out := Board(
		((uint64(b) & 0xfc0000000000000) >> 6) |
			((uint64(b) & 0x03f000000000000) << 6),
	)
	for y := int8(0); y < 4; y++ {
		for x := int8(0); x < 3; x++ {
			p := b.Get(x, y)
			if p != Empty {
				out = out.Put(x, 3-y, p.Opponent())
			}
		}
	}
	return out
}

// Init returns the game's starting position.
func Init() Board {
	var b Board
	b = b.Put(0, 0, Giraffe)
	b = b.Put(1, 0, Lion)
	b = b.Put(2, 0, Elephant)
	b = b.Put(1, 1, Chick)
	b = b.Put(1, 2, Chick.Opponent())
	b = b.Put(2, 3, Giraffe.Opponent())
	b = b.Put(1, 3, Lion.Opponent())
	b = b.Put(0, 3, Elephant.Opponent())
	return b
}

// String renders b as a human-readable board diagram, rank 3 (the
// opponent's back rank) on top, with each side's hand shown next to
// its back rank. Used only for test failure output; no stage writes
// this to its stdout contract.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("---\n")
	for y := int8(3); y >= 0; y-- {
		var row strings.Builder
		for x := int8(2); x >= 0; x-- {
			row.WriteString(b.Get(x, y).String())
		}
		if y == 0 || y == 3 {
			row.WriteString(" (")
			for _, p := range []Piece{Elephant, Giraffe, Chick} {
				hp := p
				if y == 3 {
					hp = p.Opponent()
				}
				for i := int8(0); i < b.Hand(hp); i++ {
					row.WriteString(p.String())
				}
			}
			row.WriteString(")")
		}
		sb.WriteString(row.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
