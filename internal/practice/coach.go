package practice

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/swarsense/internal/align"
	"codeberg.org/snonux/swarsense/internal/feedback"
	"codeberg.org/snonux/swarsense/internal/phoneme"
	"codeberg.org/snonux/swarsense/internal/phonetic"
	"codeberg.org/snonux/swarsense/internal/speech"
)

// DefaultMinCorrectScore is the lowest score counted as a correct pronunciation.
const DefaultMinCorrectScore = 80

var (
	ErrNoTranscriber = errors.New("no transcriber configured")
	ErrNoSpeaker     = errors.New("no speaker configured")
	ErrNoExplainer   = errors.New("no explainer configured")
)

// Explainer produces articulation advice. *phonetic.Explainer implements it.
type Explainer interface {
	Explain(ctx context.Context, req phonetic.Request) (string, error)
}

// ScoreRecorder receives every comparison. *observe.Metrics implements it.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, score int, failed bool)
}

// Analysis is the outcome of one attempt.
type Analysis struct {
	Target         string
	Spoken         string
	Transcript     string
	TargetPhonemes phoneme.Sequence
	SpokenPhonemes phoneme.Sequence
	Result         align.ScoreResult
	Feedback       feedback.Feedback
	IsCorrect      bool
}

// Score returns the 0-100 similarity score.
func (a Analysis) Score() int { return a.Result.Score }

// Failed reports whether a lookup prevented scoring.
func (a Analysis) Failed() bool { return a.Result.HasError() }

// Pair is a target word and the word actually spoken.
type Pair struct {
	Target string
	Spoken string
}

// Option configures a Coach.
type Option func(*Coach)

// WithFormatter replaces the default feedback formatter.
func WithFormatter(f *feedback.Formatter) Option {
	return func(c *Coach) { c.formatter = f }
}

// WithTranscriber enables Practice.
func WithTranscriber(t speech.Transcriber) Option {
	return func(c *Coach) { c.transcriber = t }
}

// WithSpeaker enables Say.
func WithSpeaker(s speech.Speaker) Option {
	return func(c *Coach) { c.speaker = s }
}

// WithExplainer enables Explain.
func WithExplainer(e Explainer) Option {
	return func(c *Coach) { c.explainer = e }
}

// WithScoreRecorder reports every comparison to r.
func WithScoreRecorder(r ScoreRecorder) Option {
	return func(c *Coach) { c.recorder = r }
}

// WithMinCorrectScore sets the threshold for IsCorrect.
func WithMinCorrectScore(score int) Option {
	return func(c *Coach) { c.minCorrect = score }
}

// WithConcurrency bounds the number of comparisons CompareAll runs at once.
func WithConcurrency(n int) Option {
	return func(c *Coach) { c.concurrency = n }
}

// Coach scores pronunciation attempts. It holds no per-attempt state and is
// safe for concurrent use.
type Coach struct {
	lookup      *phoneme.Lookup
	formatter   *feedback.Formatter
	transcriber speech.Transcriber
	speaker     speech.Speaker
	explainer   Explainer
	recorder    ScoreRecorder
	minCorrect  int
	concurrency int
}

// NewCoach creates a coach on top of lookup.
func NewCoach(lookup *phoneme.Lookup, opts ...Option) *Coach {
	c := &Coach{
		lookup:      lookup,
		formatter:   feedback.NewFormatter(feedback.DefaultThresholds()),
		minCorrect:  DefaultMinCorrectScore,
		concurrency: 8,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compare scores spoken against target. Lookup failures are reported in the
// result rather than as an error; the target word is checked first.
func (c *Coach) Compare(target, spoken string) Analysis {
	return c.compare(context.Background(), target, spoken)
}

func (c *Coach) compare(ctx context.Context, target, spoken string) Analysis {
	a := Analysis{Target: target, Spoken: spoken}

	t := c.lookup.Lookup(target)
	s := c.lookup.Lookup(spoken)
	a.TargetPhonemes = t.Phonemes
	a.SpokenPhonemes = s.Phonemes

	switch {
	case !t.Found():
		a.Result = align.Failed(fmt.Sprintf("could not find phonemes for target word '%s'", target))
	case !s.Found():
		a.Result = align.Failed(fmt.Sprintf("could not find phonemes for spoken word '%s'", spoken))
	default:
		a.Result = align.Score(t.Phonemes, s.Phonemes)
	}

	a.Feedback = c.formatter.Format(a.Result)
	a.IsCorrect = !a.Result.HasError() && a.Result.Score >= c.minCorrect

	if c.recorder != nil {
		c.recorder.RecordScore(ctx, a.Result.Score, a.Result.HasError())
	}
	return a
}

// Practice transcribes a recording and scores the word in it closest to target.
func (c *Coach) Practice(ctx context.Context, target, audioFile string) (Analysis, error) {
	if c.transcriber == nil {
		return Analysis{}, ErrNoTranscriber
	}

	transcript, err := c.transcriber.Transcribe(ctx, audioFile)
	if err != nil {
		return Analysis{}, fmt.Errorf("transcribe %s: %w", audioFile, err)
	}

	word, ok := phoneme.ClosestWord(transcript, target)
	if !ok {
		return Analysis{}, fmt.Errorf("transcript %q: %w", transcript, speech.ErrNoSpeech)
	}

	a := c.compare(ctx, target, word)
	a.Transcript = transcript
	return a, nil
}

// Say renders the pronunciation of word into outputFile.
func (c *Coach) Say(ctx context.Context, word, outputFile string) error {
	if c.speaker == nil {
		return ErrNoSpeaker
	}
	if err := c.speaker.Speak(ctx, word, outputFile); err != nil {
		return fmt.Errorf("speak %q with %s: %w", word, c.speaker.Name(), err)
	}
	return nil
}

// Explain asks for articulation advice on a scored attempt.
func (c *Coach) Explain(ctx context.Context, a Analysis) (string, error) {
	if c.explainer == nil {
		return "", ErrNoExplainer
	}
	if a.Failed() {
		return "", fmt.Errorf("cannot explain a failed comparison: %s", a.Result.Err)
	}

	return c.explainer.Explain(ctx, phonetic.Request{
		Target:         a.Target,
		Spoken:         a.Spoken,
		TargetPhonemes: a.TargetPhonemes,
		SpokenPhonemes: a.SpokenPhonemes,
		Differences:    a.Result.Differences(),
	})
}

// CompareAll scores every pair concurrently. Results are in input order. It
// stops early only when ctx is cancelled.
func (c *Coach) CompareAll(ctx context.Context, pairs []Pair) ([]Analysis, error) {
	results := make([]Analysis, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.compare(gctx, p.Target, p.Spoken)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
