package feedback

import (
	"fmt"

	"codeberg.org/snonux/swarsense/internal/align"
)

// GreatMatchTip is the only tip given when the edit script has no differences.
const GreatMatchTip = "great match!"

// Feedback is the presentation-ready summary of a score.
type Feedback struct {
	Bucket string
	Tips   []string
}

// Formatter renders feedback using a fixed set of thresholds.
type Formatter struct {
	thresholds Thresholds
}

// NewFormatter creates a formatter. Use DefaultThresholds for the stock buckets.
func NewFormatter(t Thresholds) *Formatter {
	return &Formatter{thresholds: t}
}

// Thresholds returns the boundaries the formatter buckets with.
func (f *Formatter) Thresholds() Thresholds {
	return f.thresholds
}

// Format maps a result to its bucket and tips. A failed comparison yields the
// lowest bucket with the failure message as its only tip.
func (f *Formatter) Format(result align.ScoreResult) Feedback {
	if result.HasError() {
		return Feedback{Bucket: f.thresholds.Bucket(0), Tips: []string{result.Err}}
	}
	return Feedback{
		Bucket: f.thresholds.Bucket(result.Score),
		Tips:   Tips(result.Ops),
	}
}

// Format uses the default thresholds.
func Format(result align.ScoreResult) Feedback {
	return NewFormatter(DefaultThresholds()).Format(result)
}

// Tips describes every non-Equal op, in script order.
func Tips(ops []align.EditOp) []string {
	var tips []string
	for _, op := range ops {
		switch op.Kind {
		case align.Replace:
			tips = append(tips, fmt.Sprintf("replace %s with %s", op.Spoken, op.Target))
		case align.Delete:
			tips = append(tips, fmt.Sprintf("you missed %s", op.Target))
		case align.Insert:
			tips = append(tips, fmt.Sprintf("drop the extra %s", op.Spoken))
		}
	}
	if len(tips) == 0 {
		return []string{GreatMatchTip}
	}
	return tips
}
