package board

// Outcome classifies the result of Next from the perspective of the
// side to move on the board Next was called on.
type Outcome uint8

const (
	// Unknown means neither Win nor Lose applies; Successors holds
	// every resulting position, reoriented to the new side to move and
	// normalized.
	Unknown Outcome = iota
	// Win means the side to move can capture the opponent's lion with
	// this move.
	Win
	// Lose means the opponent's lion already stands on the side to
	// move's back rank (a successful "try") and the side to move has
	// no move that captures it.
	Lose
)

// Result is the classification Next returns for a position.
type Result struct {
	Outcome    Outcome
	Successors []Board
}

// Next enumerates the side to move's legal moves from b and classifies
// the position. A capture of the opponent's lion short-circuits to
// Win; otherwise, if the opponent's lion already occupies the side to
// move's back rank, the position is Lose. Every successor returned in
// Unknown.Successors has been reoriented (Reverse) and reduced
// (Normalize) so it is stored side-to-move relative, matching every
// other Board this package hands out.
func (b Board) Next() Result {
	var succ []Board
	for y := int8(0); y < 4; y++ {
		for x := int8(0); x < 3; x++ {
			p := b.Get(x, y)
			switch p {
			case Lion, Elephant, Giraffe, Chick, Hen:
				cleared := b.Del(x, y)
				for _, m := range p.moves() {
					nx := x + m.dx
					if nx < 0 || nx > 2 {
						continue
					}
					ny := y + m.dy
					if ny < 0 || ny > 3 {
						continue
					}
					np := cleared.Get(nx, ny)
					if np.Mine() {
						continue
					}
					if np == Lion.Opponent() {
						return Result{Outcome: Win}
					}
					nb := cleared
					if np != Empty {
						nb = nb.Del(nx, ny).IncHand(np.Opponent())
					}
					placed := p
					if p == Chick && ny == 3 {
						placed = Hen
					}
					nb = nb.Put(nx, ny, placed)
					succ = append(succ, nb)
				}
			case Empty:
				if b.Hand(Elephant) > 0 {
					succ = append(succ, b.Put(x, y, Elephant).DecHand(Elephant))
				}
				if b.Hand(Giraffe) > 0 {
					succ = append(succ, b.Put(x, y, Giraffe).DecHand(Giraffe))
				}
				if b.Hand(Chick) > 0 {
					succ = append(succ, b.Put(x, y, Chick).DecHand(Chick))
				}
			}
		}
	}
	for x := int8(0); x < 3; x++ {
		if b.Get(x, 0) == Lion.Opponent() {
			return Result{Outcome: Lose}
		}
	}
	for i := range succ {
		succ[i] = succ[i].Reverse().Normalize()
	}
	return Result{Outcome: Unknown, Successors: succ}
}

func moveBackward(boards []Board, b Board, x, y, nx, ny int8, p Piece) []Board {
	nb := b.Put(nx, ny, p)
	boards = append(boards, nb)
	for _, hp := range []Piece{Elephant, Giraffe, Chick} {
		if b.Hand(hp) > 0 {
			boards = append(boards, nb.Put(x, y, hp.Opponent()).DecHand(hp))
			if hp == Chick {
				boards = append(boards, nb.Put(x, y, Hen.Opponent()).DecHand(hp))
			}
		}
	}
	return boards
}

// Prev enumerates every position from which some move reaches b,
// reversing both the perspective flip and the canonicalization Next
// applies going forward. Each predecessor is normalized before being
// returned, but (unlike Next's successors) is not itself reoriented
// again, since Prev already operates on b.Reverse() throughout.
func (b Board) Prev() []Board {
	var boards []Board
	rb := b.Reverse()
	for y := int8(0); y < 4; y++ {
		for x := int8(0); x < 3; x++ {
			p := rb.Get(x, y)
			switch p {
			case Lion, Elephant, Giraffe, Chick, Hen:
				cleared := rb.Del(x, y)
				for _, m := range p.moves() {
					nx := x - m.dx
					if nx < 0 || nx > 2 {
						continue
					}
					ny := y - m.dy
					if ny < 0 || ny > 3 {
						continue
					}
					if rb.Get(nx, ny) != Empty {
						continue
					}
					boards = moveBackward(boards, cleared, x, y, nx, ny, p)
				}
				if p == Hen && y == 3 && cleared.Get(x, 2) == Empty {
					boards = moveBackward(boards, cleared, x, 3, x, 2, Chick)
				}
				if p != Lion && p != Hen {
					boards = append(boards, cleared.IncHand(p))
				}
			}
		}
	}
	for i := range boards {
		boards[i] = boards[i].Normalize()
	}
	return boards
}

// Easy reports whether b can be classified as a forced win for the
// side to move by a cheap, shallow probe: either some immediate
// successor already stands on the opponent's back rank (a one-move
// try), or every reply to some move leads, within one more ply, to a
// position that is itself a won capture or a forced try. A board that
// is already terminal (Next reports Win or Lose) is reported as easy
// as well, whichever side it favors. For a non-terminal board it never
// returns a false positive, but may return false for positions that
// are in fact forced wins at greater depth.
func (b Board) Easy() bool {
	r := b.Next()
	if r.Outcome != Unknown {
		return true
	}
	for _, nb := range r.Successors {
		if nb.Next().Outcome == Lose {
			return true
		}
	}
	for _, nb := range r.Successors {
		nr := nb.Next()
		if nr.Outcome != Unknown {
			continue
		}
		win := true
		for _, nnb := range nr.Successors {
			nnr := nnb.Next()
			switch nnr.Outcome {
			case Win:
			case Lose:
				win = false
			case Unknown:
				lose := false
				for _, nnnb := range nnr.Successors {
					if nnnb.Next().Outcome == Lose {
						lose = true
						break
					}
				}
				if !lose {
					win = false
				}
			}
			if !win {
				break
			}
		}
		if win {
			return true
		}
	}
	return false
}
