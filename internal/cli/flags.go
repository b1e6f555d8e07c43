package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	DictPath  string
	CacheSize int
	LogLevel  string
	LogJSON   bool
	OutputDir string
	Metrics   bool

	// Command flags
	Explain     bool
	ReportFile  string
	Concurrency int
	Suggestions int

	// Speech provider flags
	Transcriber       string
	Speaker           string
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
	GeminiModel       string
	ESpeakVoice       string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		DictPath:    "cmudict.dict",
		CacheSize:   4096,
		LogLevel:    "warn",
		Concurrency: 8,
		Suggestions: 5,
		Transcriber: "openai",
		Speaker:     "openai",
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 0.9,
		GeminiModel: "gemini-2.5-flash",
		ESpeakVoice: "en-us",
	}
}
