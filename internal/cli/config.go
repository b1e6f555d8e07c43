package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"codeberg.org/snonux/swarsense/internal/feedback"
	"codeberg.org/snonux/swarsense/internal/speech"
)

// setDefaults registers defaults for keys that have no command-line flag.
func setDefaults() {
	t := feedback.DefaultThresholds()
	viper.SetDefault("feedback.excellent", t.Excellent)
	viper.SetDefault("feedback.good", t.Good)
	viper.SetDefault("feedback.fair", t.Fair)
	viper.SetDefault("feedback.needs_improvement", t.NeedsImprovement)
	viper.SetDefault("feedback.min_correct", 80)

	d := speech.DefaultConfig()
	viper.SetDefault("speech.format", d.OutputFormat)
	viper.SetDefault("speech.language", d.Language)
	viper.SetDefault("speech.transcribe_model", d.TranscribeModel)
	viper.SetDefault("speech.enable_cache", true)
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("speech.cache_dir", filepath.Join(home, ".cache", "swarsense"))
	}
}

// LoadThresholds reads the feedback bucket boundaries from the configuration.
func LoadThresholds() (feedback.Thresholds, error) {
	t := feedback.DefaultThresholds()
	if viper.IsSet("feedback.excellent") {
		t.Excellent = viper.GetInt("feedback.excellent")
	}
	if viper.IsSet("feedback.good") {
		t.Good = viper.GetInt("feedback.good")
	}
	if viper.IsSet("feedback.fair") {
		t.Fair = viper.GetInt("feedback.fair")
	}
	if viper.IsSet("feedback.needs_improvement") {
		t.NeedsImprovement = viper.GetInt("feedback.needs_improvement")
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid feedback thresholds: %w", err)
	}
	return t, nil
}

// LoadSpeechConfig builds the speech provider configuration. Flags bound to
// viper take precedence over the config file, which takes precedence over
// the defaults.
func LoadSpeechConfig() *speech.Config {
	config := speech.DefaultConfig()
	config.OpenAIKey = GetOpenAIKey()
	config.GeminiKey = GetGeminiKey()

	setString := func(key string, dst *string) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	setString("speech.transcriber", &config.Transcriber)
	setString("speech.speaker", &config.Speaker)
	setString("speech.format", &config.OutputFormat)
	setString("speech.language", &config.Language)
	setString("speech.openai_model", &config.OpenAIModel)
	setString("speech.openai_voice", &config.OpenAIVoice)
	setString("speech.openai_instruction", &config.OpenAIInstruction)
	setString("speech.transcribe_model", &config.TranscribeModel)
	setString("speech.gemini_model", &config.GeminiModel)
	setString("speech.espeak_voice", &config.ESpeakVoice)
	setString("speech.cache_dir", &config.CacheDir)

	if viper.IsSet("speech.openai_speed") {
		config.OpenAISpeed = viper.GetFloat64("speech.openai_speed")
	}
	config.EnableCache = viper.GetBool("speech.enable_cache") && config.CacheDir != ""

	return config
}
