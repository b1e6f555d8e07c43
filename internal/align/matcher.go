package align

import "sort"

// Match describes a matching block: A[A:A+Size] == B[B:B+Size].
type Match struct {
	A, B, Size int
}

// Opcode tags a region of both sequences. Tag is one of "equal", "replace",
// "delete" or "insert"; A1:A2 and B1:B2 are the half-open ranges it covers.
type Opcode struct {
	Tag    string
	A1, A2 int
	B1, B2 int
}

// Matcher aligns two sequences of comparable elements. It is immutable after
// construction. Matching blocks are computed on the first call that needs them.
type Matcher[T comparable] struct {
	a, b   []T
	b2j    map[T][]int
	blocks []Match
}

// NewMatcher prepares an alignment of a against b.
func NewMatcher[T comparable](a, b []T) *Matcher[T] {
	b2j := make(map[T][]int, len(b))
	for j, elt := range b {
		b2j[elt] = append(b2j[elt], j)
	}
	return &Matcher[T]{a: a, b: b, b2j: b2j}
}

// longestMatch finds the longest block with a[i:i+k] == b[j:j+k] inside
// a[alo:ahi] and b[blo:bhi]. Among equally long blocks the one starting
// earliest in a wins, then the one starting earliest in b.
func (m *Matcher[T]) longestMatch(alo, ahi, blo, bhi int) Match {
	best := Match{A: alo, B: blo}

	// j2len[j] is the length of the longest match ending at a[i-1], b[j].
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int, len(j2len)+1)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > best.Size {
				best = Match{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}
		j2len = newj2len
	}
	return best
}

// MatchingBlocks returns the non-overlapping matching blocks in increasing
// order, adjacent blocks merged, terminated by the sentinel {len(a), len(b), 0}.
func (m *Matcher[T]) MatchingBlocks() []Match {
	if m.blocks != nil {
		return m.blocks
	}

	la, lb := len(m.a), len(m.b)
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, la, 0, lb}}

	var found []Match
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		x := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if x.Size == 0 {
			continue
		}
		found = append(found, x)
		if s.alo < x.A && s.blo < x.B {
			queue = append(queue, span{s.alo, x.A, s.blo, x.B})
		}
		if x.A+x.Size < s.ahi && x.B+x.Size < s.bhi {
			queue = append(queue, span{x.A + x.Size, s.ahi, x.B + x.Size, s.bhi})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].A != found[j].A {
			return found[i].A < found[j].A
		}
		return found[i].B < found[j].B
	})

	blocks := make([]Match, 0, len(found)+1)
	for _, x := range found {
		if n := len(blocks); n > 0 {
			last := &blocks[n-1]
			if last.A+last.Size == x.A && last.B+last.Size == x.B {
				last.Size += x.Size
				continue
			}
		}
		blocks = append(blocks, x)
	}
	blocks = append(blocks, Match{A: la, B: lb})

	m.blocks = blocks
	return blocks
}

// Matches returns the total number of aligned elements.
func (m *Matcher[T]) Matches() int {
	total := 0
	for _, blk := range m.MatchingBlocks() {
		total += blk.Size
	}
	return total
}

// Ratio returns 2*M/T where M is the number of matched elements and T the
// combined length. Two empty sequences are identical and score 1.
func (m *Matcher[T]) Ratio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(m.Matches()) / float64(total)
}

// Opcodes describes how to turn a into b as a list of tagged regions.
func (m *Matcher[T]) Opcodes() []Opcode {
	var ops []Opcode
	i, j := 0, 0
	for _, blk := range m.MatchingBlocks() {
		var tag string
		switch {
		case i < blk.A && j < blk.B:
			tag = "replace"
		case i < blk.A:
			tag = "delete"
		case j < blk.B:
			tag = "insert"
		}
		if tag != "" {
			ops = append(ops, Opcode{Tag: tag, A1: i, A2: blk.A, B1: j, B2: blk.B})
		}
		i, j = blk.A+blk.Size, blk.B+blk.Size
		if blk.Size > 0 {
			ops = append(ops, Opcode{Tag: "equal", A1: blk.A, A2: i, B1: blk.B, B2: j})
		}
	}
	return ops
}
