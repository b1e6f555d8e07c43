package align

import (
	"math"

	"codeberg.org/snonux/swarsense/internal/phoneme"
)

// OpKind identifies one step of an edit script.
type OpKind int

const (
	Equal OpKind = iota
	Replace
	Insert
	Delete
)

func (k OpKind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Replace:
		return "replace"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// EditOp is one step turning the target pronunciation into the spoken one.
// Target is empty for Insert and Spoken is empty for Delete.
type EditOp struct {
	Kind   OpKind
	Target phoneme.Token
	Spoken phoneme.Token
}

// ScoreResult is the outcome of comparing two pronunciations.
type ScoreResult struct {
	Score int
	Ratio float64
	Ops   []EditOp
	// Err is set when a pronunciation could not be looked up. Score, Ratio
	// and Ops are zero in that case.
	Err string
}

// HasError reports whether the comparison could not be performed.
func (r ScoreResult) HasError() bool {
	return r.Err != ""
}

// Differences returns the non-Equal steps of the edit script.
func (r ScoreResult) Differences() []EditOp {
	var diffs []EditOp
	for _, op := range r.Ops {
		if op.Kind != Equal {
			diffs = append(diffs, op)
		}
	}
	return diffs
}

// Failed builds the result for a comparison that never reached the engine.
func Failed(msg string) ScoreResult {
	return ScoreResult{Err: msg}
}

// Score aligns spoken against target and scores their similarity.
func Score(target, spoken phoneme.Sequence) ScoreResult {
	m := NewMatcher([]phoneme.Token(target), []phoneme.Token(spoken))
	ratio := m.Ratio()

	return ScoreResult{
		Score: toScore(ratio),
		Ratio: ratio,
		Ops:   editScript(target, spoken, m.Opcodes()),
	}
}

func toScore(ratio float64) int {
	s := int(math.Round(ratio * 100))
	return max(0, min(100, s))
}

func editScript(target, spoken phoneme.Sequence, opcodes []Opcode) []EditOp {
	ops := make([]EditOp, 0, max(len(target), len(spoken)))
	for _, oc := range opcodes {
		a := target[oc.A1:oc.A2]
		b := spoken[oc.B1:oc.B2]

		if oc.Tag == "equal" {
			for i := range a {
				ops = append(ops, EditOp{Kind: Equal, Target: a[i], Spoken: b[i]})
			}
			continue
		}

		n := min(len(a), len(b))
		for i := 0; i < n; i++ {
			ops = append(ops, EditOp{Kind: Replace, Target: a[i], Spoken: b[i]})
		}
		for _, t := range a[n:] {
			ops = append(ops, EditOp{Kind: Delete, Target: t})
		}
		for _, s := range b[n:] {
			ops = append(ops, EditOp{Kind: Insert, Spoken: s})
		}
	}
	return ops
}

// Apply replays an edit script and returns the target and spoken sequences it
// describes.
func Apply(ops []EditOp) (target, spoken phoneme.Sequence) {
	for _, op := range ops {
		switch op.Kind {
		case Equal, Replace:
			target = append(target, op.Target)
			spoken = append(spoken, op.Spoken)
		case Delete:
			target = append(target, op.Target)
		case Insert:
			spoken = append(spoken, op.Spoken)
		}
	}
	return target, spoken
}
