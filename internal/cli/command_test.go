package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type fakeRunner struct {
	calls []string
}

func (r *fakeRunner) Score(cmd *cobra.Command, target, spoken string) error {
	r.calls = append(r.calls, "score "+target+" "+spoken)
	return nil
}

func (r *fakeRunner) Phonemes(cmd *cobra.Command, words []string) error {
	r.calls = append(r.calls, "phonemes "+strings.Join(words, " "))
	return nil
}

func (r *fakeRunner) Practice(cmd *cobra.Command, target, audioFile string) error {
	r.calls = append(r.calls, "practice "+target+" "+audioFile)
	return nil
}

func (r *fakeRunner) Say(cmd *cobra.Command, word string) error {
	r.calls = append(r.calls, "say "+word)
	return nil
}

func (r *fakeRunner) Batch(cmd *cobra.Command, file string) error {
	r.calls = append(r.calls, "batch "+file)
	return nil
}

func (r *fakeRunner) Models(cmd *cobra.Command) error {
	r.calls = append(r.calls, "models")
	return nil
}

func saveViper(t *testing.T) {
	t.Helper()
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	t.Cleanup(func() {
		*viper.GetViper() = *originalConfig
	})
	viper.Reset()
}

func TestCreateRootCommand(t *testing.T) {
	saveViper(t)

	flags := NewFlags()
	cmd := CreateRootCommand(flags, &fakeRunner{})

	// Test basic command properties
	if cmd.Use != "swarsense" {
		t.Errorf("Expected Use to be 'swarsense', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "pronunciation coach") {
		t.Errorf("Expected Short description to contain 'pronunciation coach'")
	}

	// Test that persistent flags are set up
	persistent := []string{
		"config", "dict", "cache-size", "log-level", "log-json", "metrics", "output",
		"transcriber", "speaker", "openai-model", "openai-voice", "openai-speed",
		"openai-instruction", "gemini-model", "espeak-voice",
	}
	for _, name := range persistent {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag = cmd.PersistentFlags().Lookup(name)
			if flag == nil {
				t.Errorf("Expected persistent flag %s to exist", name)
			}
		})
	}

	// Test subcommands and their local flags
	subFlags := map[string][]string{
		"score":    {"explain"},
		"phonemes": {"suggest"},
		"practice": {"explain"},
		"say":      nil,
		"batch":    {"report", "jobs"},
		"models":   nil,
	}
	for name, local := range subFlags {
		t.Run("command_"+name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub.Name() != name {
				t.Fatalf("Expected subcommand %s, got error %v", name, err)
			}
			for _, f := range local {
				if sub.Flags().Lookup(f) == nil {
					t.Errorf("Expected flag %s on %s", f, name)
				}
			}
		})
	}
}

func TestCommandDispatch(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"score", "hello", "hallo"}, "score hello hallo"},
		{[]string{"phonemes", "tomato", "cat"}, "phonemes tomato cat"},
		{[]string{"practice", "hello", "attempt.wav"}, "practice hello attempt.wav"},
		{[]string{"say", "hello"}, "say hello"},
		{[]string{"batch", "pairs.txt"}, "batch pairs.txt"},
		{[]string{"models"}, "models"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			saveViper(t)

			runner := &fakeRunner{}
			cmd := CreateRootCommand(NewFlags(), runner)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !reflect.DeepEqual(runner.calls, []string{tt.expected}) {
				t.Errorf("calls = %v, want [%s]", runner.calls, tt.expected)
			}
		})
	}
}

func TestCommandArgs(t *testing.T) {
	tests := [][]string{
		{"score", "hello"},
		{"phonemes"},
		{"practice", "hello"},
		{"say"},
		{"batch"},
		{"models", "extra"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			saveViper(t)

			runner := &fakeRunner{}
			cmd := CreateRootCommand(NewFlags(), runner)
			cmd.SetArgs(args)

			if err := cmd.Execute(); err == nil {
				t.Error("Expected argument validation error")
			}
			if len(runner.calls) != 0 {
				t.Errorf("Runner should not be called, got %v", runner.calls)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	saveViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	// Test default values
	outputFlag := cmd.PersistentFlags().Lookup("output")
	if outputFlag == nil {
		t.Fatal("output flag not found")
	}

	home, _ := os.UserHomeDir()
	expectedDefault := filepath.Join(home, ".local", "state", "swarsense", "audio")
	if outputFlag.DefValue != expectedDefault {
		t.Errorf("Expected default output dir to be %s, got %s", expectedDefault, outputFlag.DefValue)
	}

	dictFlag := cmd.PersistentFlags().Lookup("dict")
	if dictFlag == nil {
		t.Fatal("dict flag not found")
	}
	if dictFlag.DefValue != "cmudict.dict" {
		t.Errorf("Expected default dict to be cmudict.dict, got %s", dictFlag.DefValue)
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantModel string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				tmpDir := t.TempDir()
				cfgPath := filepath.Join(tmpDir, "test-config.yaml")
				content := `speech:
  transcriber: gemini
  openai_model: tts-1-hd
output:
  directory: /test/output`
				err := os.WriteFile(cfgPath, []byte(content), 0644)
				if err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			wantModel: "tts-1-hd",
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveViper(t)

			cfgPath := tt.setupFunc(t)
			InitConfig(cfgPath)

			// Test environment variable prefix
			t.Setenv("SWARSENSE_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			if got := viper.GetString("speech.openai_model"); got != tt.wantModel {
				t.Errorf("speech.openai_model = %q, want %q", got, tt.wantModel)
			}

			// Defaults are registered either way
			if viper.GetInt("feedback.excellent") != 90 {
				t.Errorf("Expected feedback.excellent default 90, got %d", viper.GetInt("feedback.excellent"))
			}
		})
	}
}

func TestGetOpenAIKey(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{
			name:      "from environment",
			envKey:    "env-test-key",
			configKey: "config-test-key",
			expected:  "env-test-key",
		},
		{
			name:      "from config when no env",
			envKey:    "",
			configKey: "config-test-key",
			expected:  "config-test-key",
		},
		{
			name:      "empty when neither set",
			envKey:    "",
			configKey: "",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveViper(t)

			// Set up environment
			t.Setenv("OPENAI_API_KEY", tt.envKey)

			// Set up config
			if tt.configKey != "" {
				viper.Set("speech.openai_key", tt.configKey)
			}

			got := GetOpenAIKey()
			if got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetGeminiKey(t *testing.T) {
	saveViper(t)

	t.Setenv("GEMINI_API_KEY", "")
	viper.Set("speech.gemini_key", "config-gemini")
	if got := GetGeminiKey(); got != "config-gemini" {
		t.Errorf("GetGeminiKey() = %v, want config-gemini", got)
	}

	t.Setenv("GEMINI_API_KEY", "env-gemini")
	if got := GetGeminiKey(); got != "env-gemini" {
		t.Errorf("GetGeminiKey() = %v, want env-gemini", got)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	saveViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.PersistentFlags().Set("output", "/test/output")
	cmd.PersistentFlags().Set("dict", "/test/cmudict.dict")
	cmd.PersistentFlags().Set("openai-model", "tts-1-hd")
	cmd.PersistentFlags().Set("transcriber", "gemini")

	// Test that values are bound
	checks := map[string]string{
		"output.directory":    "/test/output",
		"dictionary.path":     "/test/cmudict.dict",
		"speech.openai_model": "tts-1-hd",
		"speech.transcriber":  "gemini",
	}
	for key, want := range checks {
		if got := viper.GetString(key); got != want {
			t.Errorf("Expected %s to be %s, got %s", key, want, got)
		}
	}
}
