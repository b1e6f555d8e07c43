package feedback

import "fmt"

// Default bucket boundaries. A score at or above a boundary lands in that bucket.
const (
	DefaultExcellent        = 90
	DefaultGood             = 80
	DefaultFair             = 70
	DefaultNeedsImprovement = 50
)

// Bucket labels.
const (
	LabelExcellent        = "Excellent"
	LabelGood             = "Good"
	LabelFair             = "Fair"
	LabelNeedsImprovement = "Needs improvement"
	LabelSignificant      = "Significant improvement needed"
)

// Thresholds holds the lower bounds of each bucket.
type Thresholds struct {
	Excellent        int `yaml:"excellent"`
	Good             int `yaml:"good"`
	Fair             int `yaml:"fair"`
	NeedsImprovement int `yaml:"needs_improvement"`
}

// DefaultThresholds returns the stock bucket boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Excellent:        DefaultExcellent,
		Good:             DefaultGood,
		Fair:             DefaultFair,
		NeedsImprovement: DefaultNeedsImprovement,
	}
}

// Validate checks that the boundaries are within 0..100 and strictly descending.
func (t Thresholds) Validate() error {
	bounds := []struct {
		name  string
		value int
	}{
		{"excellent", t.Excellent},
		{"good", t.Good},
		{"fair", t.Fair},
		{"needs_improvement", t.NeedsImprovement},
	}

	for i, b := range bounds {
		if b.value < 0 || b.value > 100 {
			return fmt.Errorf("threshold %s must be between 0 and 100, got %d", b.name, b.value)
		}
		if i > 0 && b.value >= bounds[i-1].value {
			return fmt.Errorf("threshold %s (%d) must be lower than %s (%d)",
				b.name, b.value, bounds[i-1].name, bounds[i-1].value)
		}
	}
	return nil
}

// Bucket returns the label for score.
func (t Thresholds) Bucket(score int) string {
	switch {
	case score >= t.Excellent:
		return LabelExcellent
	case score >= t.Good:
		return LabelGood
	case score >= t.Fair:
		return LabelFair
	case score >= t.NeedsImprovement:
		return LabelNeedsImprovement
	default:
		return LabelSignificant
	}
}
