package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/swarsense/internal"
	"codeberg.org/snonux/swarsense/internal/batch"
	"codeberg.org/snonux/swarsense/internal/cli"
	"codeberg.org/snonux/swarsense/internal/feedback"
	"codeberg.org/snonux/swarsense/internal/models"
	"codeberg.org/snonux/swarsense/internal/observe"
	"codeberg.org/snonux/swarsense/internal/phoneme"
	"codeberg.org/snonux/swarsense/internal/phonetic"
	"codeberg.org/snonux/swarsense/internal/practice"
	"codeberg.org/snonux/swarsense/internal/report"
	"codeberg.org/snonux/swarsense/internal/speech"
)

// Processor runs the swarsense subcommands
type Processor struct {
	flags   *cli.Flags
	metrics *observe.Metrics
	session *practice.Session
	lookup  *phoneme.Lookup

	// Provider constructors, replaced in tests
	newTranscriber func(ctx context.Context, config *speech.Config) (speech.Transcriber, error)
	newSpeaker     func(config *speech.Config) (speech.Speaker, error)
	newExplainer   func(apiKey string) practice.Explainer
	listModels     func(ctx context.Context, apiKey string, w io.Writer) error
}

// NewProcessor creates a new processor. A nil metrics records nothing.
func NewProcessor(flags *cli.Flags, metrics *observe.Metrics) *Processor {
	return &Processor{
		flags:          flags,
		metrics:        metrics,
		session:        practice.NewSession(practice.DefaultMaxHistory),
		newTranscriber: speech.NewTranscriber,
		newSpeaker:     speech.NewSpeaker,
		newExplainer: func(apiKey string) practice.Explainer {
			return phonetic.NewExplainer(apiKey)
		},
		listModels: func(ctx context.Context, apiKey string, w io.Writer) error {
			return models.NewLister(apiKey).ListAvailableModels(ctx, w)
		},
	}
}

// Session returns the attempts recorded so far
func (p *Processor) Session() *practice.Session {
	return p.session
}

// Score compares two words and prints the result
func (p *Processor) Score(cmd *cobra.Command, target, spoken string) error {
	coach, err := p.coach(cmd)
	if err != nil {
		return err
	}

	a := coach.Compare(target, spoken)
	p.session.Record(a)
	printAnalysis(cmd.OutOrStdout(), a)

	if p.flags.Explain {
		p.explain(cmd, coach, a)
	}
	return nil
}

// Phonemes prints the pronunciation of each word, with suggestions for
// words missing from the dictionary
func (p *Processor) Phonemes(cmd *cobra.Command, words []string) error {
	lookup, err := p.loadLookup()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, word := range words {
		res := lookup.Lookup(word)
		if res.Found() {
			fmt.Fprintf(out, "%s: %s %s\n", res.Word, res.Phonemes, res.Phonemes.IPA())
			continue
		}

		fmt.Fprintf(out, "%s: not found\n", word)
		lister, ok := lookup.Dictionary().(phoneme.WordLister)
		if !ok || p.flags.Suggestions <= 0 {
			continue
		}
		if suggestions := phoneme.Suggest(lister, word, p.flags.Suggestions); len(suggestions) > 0 {
			fmt.Fprintf(out, "  Did you mean: %s\n", strings.Join(suggestions, ", "))
		}
	}
	return nil
}

// Practice transcribes a recording and scores it against target
func (p *Processor) Practice(cmd *cobra.Command, target, audioFile string) error {
	if err := speech.ValidateAudioFile(audioFile); err != nil {
		return fmt.Errorf("invalid recording '%s': %w", audioFile, err)
	}

	coach, err := p.coach(cmd, withTranscriber)
	if err != nil {
		return err
	}

	a, err := coach.Practice(contextOf(cmd), target, audioFile)
	if err != nil {
		return err
	}
	p.session.Record(a)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Heard: %q\n", a.Transcript)
	printAnalysis(out, a)

	if p.flags.Explain {
		p.explain(cmd, coach, a)
	}
	return nil
}

// Say synthesizes the pronunciation of word into the output directory
func (p *Processor) Say(cmd *cobra.Command, word string) error {
	if err := speech.ValidateText(word); err != nil {
		return fmt.Errorf("invalid word '%s': %w", word, err)
	}

	coach, err := p.coach(cmd, withSpeaker)
	if err != nil {
		return err
	}

	outputDir := p.outputDir()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	format := viper.GetString("speech.format")
	if format == "" {
		format = speech.DefaultConfig().OutputFormat
	}
	outputFile := filepath.Join(outputDir, internal.SanitizeFilename(word)+"."+format)

	fmt.Fprintf(cmd.OutOrStdout(), "Generating audio for '%s'...\n", word)
	if err := coach.Say(contextOf(cmd), word, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Audio saved to %s\n", outputFile)
	return nil
}

// Batch scores every pair of a batch file and optionally writes a report
func (p *Processor) Batch(cmd *cobra.Command, file string) error {
	pf, err := batch.ReadPairsFile(file)
	if err != nil {
		return err
	}
	if len(pf.Pairs) == 0 {
		return fmt.Errorf("no word pairs found in %s", file)
	}

	coach, err := p.coach(cmd)
	if err != nil {
		return err
	}

	results, err := coach.CompareAll(contextOf(cmd), pf.Pairs)
	if err != nil {
		return fmt.Errorf("batch scoring cancelled: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scoring %d word pairs from %s\n\n", len(pf.Pairs), file)
	attempts := make([]practice.Attempt, 0, len(results))
	for _, a := range results {
		attempts = append(attempts, p.session.Record(a))
		if a.Failed() {
			fmt.Fprintf(out, "  %-15s %-15s   -  %s\n", a.Target, a.Spoken, a.Result.Err)
			continue
		}
		fmt.Fprintf(out, "  %-15s %-15s %3d  %s\n", a.Target, a.Spoken, a.Score(), a.Feedback.Bucket)
	}

	stats := p.session.Stats()
	fmt.Fprintf(out, "\nScored %d of %d pairs, %d correct, average %.1f\n",
		stats.Scored, stats.Total, stats.Correct, stats.Average)
	if len(pf.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped %d malformed lines: %v\n", len(pf.Skipped), pf.Skipped)
	}

	if p.flags.ReportFile != "" {
		if err := report.WriteFile(p.flags.ReportFile, attempts, stats); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", p.flags.ReportFile)
	}
	return nil
}

// Models lists the OpenAI models usable by swarsense
func (p *Processor) Models(cmd *cobra.Command) error {
	return p.listModels(contextOf(cmd), cli.GetOpenAIKey(), cmd.OutOrStdout())
}

type coachNeed int

const (
	withTranscriber coachNeed = iota
	withSpeaker
)

// coach builds a practice coach with the providers the command needs
func (p *Processor) coach(cmd *cobra.Command, needs ...coachNeed) (*practice.Coach, error) {
	lookup, err := p.loadLookup()
	if err != nil {
		return nil, err
	}

	thresholds, err := cli.LoadThresholds()
	if err != nil {
		return nil, err
	}

	opts := []practice.Option{
		practice.WithFormatter(feedback.NewFormatter(thresholds)),
		practice.WithScoreRecorder(p.metrics),
		practice.WithConcurrency(p.flags.Concurrency),
	}
	if viper.IsSet("feedback.min_correct") {
		opts = append(opts, practice.WithMinCorrectScore(viper.GetInt("feedback.min_correct")))
	}

	config := cli.LoadSpeechConfig()
	breaker := speech.DefaultBreakerConfig()
	breaker.OnFailure = func(provider string) {
		p.metrics.RecordProviderError(context.Background(), provider, "failure")
	}

	for _, need := range needs {
		switch need {
		case withTranscriber:
			t, err := p.newTranscriber(contextOf(cmd), config)
			if err != nil {
				return nil, fmt.Errorf("failed to create transcriber: %w", err)
			}
			opts = append(opts, practice.WithTranscriber(speech.NewBreakerTranscriber(t, breaker)))
		case withSpeaker:
			s, err := p.newSpeaker(config)
			if err != nil {
				return nil, fmt.Errorf("failed to create speaker: %w", err)
			}
			if err := s.IsAvailable(); err != nil {
				return nil, fmt.Errorf("speaker %s is not available: %w", s.Name(), err)
			}
			opts = append(opts, practice.WithSpeaker(speech.NewBreakerSpeaker(s, breaker)))
		}
	}

	if p.flags.Explain {
		opts = append(opts, practice.WithExplainer(p.newExplainer(config.OpenAIKey)))
	}

	return practice.NewCoach(lookup, opts...), nil
}

// loadLookup loads the pronunciation dictionary on first use
func (p *Processor) loadLookup() (*phoneme.Lookup, error) {
	if p.lookup != nil {
		return p.lookup, nil
	}

	path := p.flags.DictPath
	if viper.IsSet("dictionary.path") {
		path = viper.GetString("dictionary.path")
	}
	cacheSize := p.flags.CacheSize
	if viper.IsSet("dictionary.cache_size") {
		cacheSize = viper.GetInt("dictionary.cache_size")
	}

	dict, err := phoneme.LoadCMU(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	p.lookup = phoneme.NewLookup(dict,
		phoneme.WithCacheSize(cacheSize),
		phoneme.WithRecorder(p.metrics))
	return p.lookup, nil
}

func (p *Processor) outputDir() string {
	if viper.IsSet("output.directory") {
		return viper.GetString("output.directory")
	}
	return p.flags.OutputDir
}

// explain prints articulation advice. Failures are reported but do not fail
// the command, since the score has already been printed.
func (p *Processor) explain(cmd *cobra.Command, coach *practice.Coach, a practice.Analysis) {
	if a.Failed() || a.Score() == 100 {
		return
	}

	advice, err := coach.Explain(contextOf(cmd), a)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not get pronunciation advice: %v\n", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nAdvice:\n%s\n", advice)
}

func printAnalysis(w io.Writer, a practice.Analysis) {
	if len(a.TargetPhonemes) > 0 {
		fmt.Fprintf(w, "Target: %-15s %s %s\n", a.Target, a.TargetPhonemes, a.TargetPhonemes.IPA())
	}
	if len(a.SpokenPhonemes) > 0 {
		fmt.Fprintf(w, "Spoken: %-15s %s %s\n", a.Spoken, a.SpokenPhonemes, a.SpokenPhonemes.IPA())
	}

	if a.Failed() {
		fmt.Fprintf(w, "Error: %s\n", a.Result.Err)
		return
	}

	fmt.Fprintf(w, "Score: %d/100 (%s)\n", a.Score(), a.Feedback.Bucket)
	for _, tip := range a.Feedback.Tips {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
