package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile         string
	Target          string
	Provider        string
	Workers         int
	OutputFile      string
	ListLanguages   bool
	ListModels      bool
	NoAutoTranslate bool

	// Provider model overrides
	OpenAIModel string
	GeminiModel string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Target:      "zh-CN",
		Provider:    "google",
		Workers:     4,
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
	}
}
