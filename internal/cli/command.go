package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/biread/internal"
	"codeberg.org/snonux/biread/internal/translate"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "biread [document]",
		Short: "Side-by-side bilingual document reader",
		Long: `biread loads an English document (.txt, .docx or .pdf) and shows it
next to a machine translation, paragraph by paragraph, with selection and
scrolling kept in sync between the two panes.

Examples:
  biread                          # Launch the reader GUI (default)
  biread paper.pdf                # Translate a document on the command line
  biread -t de -o out.txt a.docx  # German translation, written to out.txt
  biread --list-languages         # Show available target languages`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.biread.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.Target, "target", "t", flags.Target, "Target language code (see --list-languages)")
	cmd.Flags().StringVarP(&flags.Provider, "provider", "p", flags.Provider, "Translation provider: google, openai, gemini, baidu or youdao")
	cmd.Flags().IntVar(&flags.Workers, "workers", flags.Workers, "Concurrent translation workers")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write bilingual text to file instead of stdout (CLI mode)")
	cmd.Flags().BoolVar(&flags.ListLanguages, "list-languages", false, "List supported target languages")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List OpenAI chat models available with your API key")
	cmd.Flags().BoolVar(&flags.NoAutoTranslate, "no-auto-translate", false, "Do not start translating automatically after opening a document in GUI mode")

	// Provider model flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model used for translation")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model used for translation")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translate.target", cmd.Flags().Lookup("target"))
	viper.BindPFlag("translate.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translate.workers", cmd.Flags().Lookup("workers"))
	viper.BindPFlag("translate.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("translate.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("gui.no_auto_translate", cmd.Flags().Lookup("no-auto-translate"))
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

		// Search config in home directory with name ".biread" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".biread")
	}

	// Environment variables
	viper.SetEnvPrefix("BIREAD")
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
	return viper.GetString("translate.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translate.gemini_key")
}

// ProviderConfig assembles the translation provider configuration from
// flags, environment and config file.
func ProviderConfig(flags *Flags) *translate.Config {
	return &translate.Config{
		Provider:        flags.Provider,
		Timeout:         15 * time.Second,
		OpenAIKey:       GetOpenAIKey(),
		OpenAIModel:     flags.OpenAIModel,
		GeminiKey:       GetGeminiKey(),
		GeminiModel:     flags.GeminiModel,
		BaiduAppID:      viper.GetString("translate.baidu_appid"),
		BaiduKey:        viper.GetString("translate.baidu_key"),
		YoudaoAppKey:    viper.GetString("translate.youdao_app_key"),
		YoudaoAppSecret: viper.GetString("translate.youdao_app_secret"),
	}
}

// PrintLanguages writes the supported language table to stdout.
func PrintLanguages() {
	fmt.Println("Supported target languages:")
	for _, l := range translate.Languages {
		fmt.Printf("  %-6s %s\n", l.Code, l.Label)
	}
}
