package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/swarsense/internal"
)

// Runner executes the subcommands. The processor package implements it.
type Runner interface {
	Score(cmd *cobra.Command, target, spoken string) error
	Phonemes(cmd *cobra.Command, words []string) error
	Practice(cmd *cobra.Command, target, audioFile string) error
	Say(cmd *cobra.Command, word string) error
	Batch(cmd *cobra.Command, file string) error
	Models(cmd *cobra.Command) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swarsense",
		Short: "English pronunciation coach",
		Long: `swarsense scores how closely a spoken word matches its target
pronunciation, using the CMU Pronouncing Dictionary.

Both words are converted to ARPABET phonemes and aligned; the score is
the share of matching phonemes and every difference becomes a tip.

Examples:
  swarsense score hello hallo            # Compare two words
  swarsense phonemes tomato              # Show a pronunciation
  swarsense practice hello attempt.wav   # Transcribe a recording and score it
  swarsense say hello                    # Synthesize the correct pronunciation
  swarsense batch pairs.txt --report r.yaml`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "score TARGET SPOKEN",
			Short: "Score a spoken word against a target word",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.Score(cmd, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "phonemes WORD...",
			Short: "Print the ARPABET and IPA pronunciation of words",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.Phonemes(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "practice TARGET AUDIO",
			Short: "Transcribe a recording and score it against a target word",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.Practice(cmd, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "say WORD",
			Short: "Synthesize the pronunciation of a word into the output directory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.Say(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "batch FILE",
			Short: "Score every 'target = spoken' line of a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.Batch(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "models",
			Short: "List available OpenAI speech and chat models",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.Models(cmd)
			},
		},
	)

	for _, sub := range rootCmd.Commands() {
		switch sub.Name() {
		case "score", "practice":
			sub.Flags().BoolVar(&flags.Explain, "explain", false, "Ask OpenAI for articulation advice on the differences")
		case "phonemes":
			sub.Flags().IntVar(&flags.Suggestions, "suggest", flags.Suggestions, "Number of suggestions for unknown words (0 disables)")
		case "batch":
			sub.Flags().StringVar(&flags.ReportFile, "report", "", "Write a YAML report to this file")
			sub.Flags().IntVarP(&flags.Concurrency, "jobs", "j", flags.Concurrency, "Number of pairs scored in parallel")
		}
	}

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	home, _ := os.UserHomeDir()
	defaultOutputDir := filepath.Join(home, ".local", "state", "swarsense", "audio")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.swarsense.yaml)")
	pf.StringVar(&flags.DictPath, "dict", flags.DictPath, "CMU pronouncing dictionary file")
	pf.IntVar(&flags.CacheSize, "cache-size", flags.CacheSize, "Number of dictionary lookups to memoize (0 disables)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.LogJSON, "log-json", false, "Log in JSON format")
	pf.BoolVar(&flags.Metrics, "metrics", false, "Print lookup, score, and provider error totals to stderr on exit")
	pf.StringVarP(&flags.OutputDir, "output", "o", defaultOutputDir, "Output directory for synthesized audio")

	// Speech provider flags
	pf.StringVar(&flags.Transcriber, "transcriber", flags.Transcriber, "Speech-to-text provider: openai or gemini")
	pf.StringVar(&flags.Speaker, "speaker", flags.Speaker, "Text-to-speech provider: openai or espeak")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	pf.StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model")
	pf.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model used for transcription")
	pf.StringVar(&flags.ESpeakVoice, "espeak-voice", flags.ESpeakVoice, "espeak-ng voice (e.g. en-us, en-gb)")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("dictionary.path", pf.Lookup("dict"))
	viper.BindPFlag("dictionary.cache_size", pf.Lookup("cache-size"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.json", pf.Lookup("log-json"))
	viper.BindPFlag("output.directory", pf.Lookup("output"))
	viper.BindPFlag("speech.transcriber", pf.Lookup("transcriber"))
	viper.BindPFlag("speech.speaker", pf.Lookup("speaker"))
	viper.BindPFlag("speech.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("speech.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("speech.openai_speed", pf.Lookup("openai-speed"))
	viper.BindPFlag("speech.openai_instruction", pf.Lookup("openai-instruction"))
	viper.BindPFlag("speech.gemini_model", pf.Lookup("gemini-model"))
	viper.BindPFlag("speech.espeak_voice", pf.Lookup("espeak-voice"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".swarsense" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".swarsense")
	}

	setDefaults()

	// Environment variables
	// SWARSENSE_FEEDBACK_GOOD overrides feedback.good
	viper.SetEnvPrefix("SWARSENSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("speech.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("speech.gemini_key")
}
