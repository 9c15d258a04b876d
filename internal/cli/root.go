package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/observability"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:          "ikigen",
	Short:        "Reflect on your Ikigai and turn the result into a share-ready post",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(observability.InitLogger(cmd.ErrOrStderr(), level))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ikigen %s\n", Version)
	},
}

var composeCmd = &cobra.Command{
	Use:   "compose [insight...]",
	Short: "Compose a share post from an insight (reads stdin when no args are given)",
	RunE:  runCompose,
}

var toneCmd = &cobra.Command{
	Use:   "tone [text...]",
	Short: "Rewrite text into the first person when the header calls for it",
	RunE:  runTone,
}

var insightCmd = &cobra.Command{
	Use:   "insight [text...]",
	Short: "Generate one reflective insight with the configured model",
	RunE:  runInsight,
}

var (
	flagVerbose         bool
	flagToneURL         string
	flagTemplates       string
	flagLink            bool
	flagSiteURL         string
	flagHeader          string
	flagContext         string
	flagQuestion        string
	flagModel           string
	flagToneModel       string
	flagOpenAIAPIKey    string
	flagAnthropicAPIKey string
	flagGeminiAPIKey    string
)

func init() {
	rootCmd.AddCommand(versionCmd, composeCmd, toneCmd, insightCmd, reflectCmd)
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable detailed logging")

	composeCmd.Flags().StringVar(&flagToneURL, "tone-url", "", "Tone-adjust endpoint for the enhanced rewrite (e.g. http://localhost:8080/api/tone-adjust)")
	composeCmd.Flags().StringVar(&flagTemplates, "templates", os.Getenv("SHARE_TEMPLATES"), "YAML file with headers and callsToAction lists")
	composeCmd.Flags().BoolVar(&flagLink, "link", false, "Also print the LinkedIn share URL")
	composeCmd.Flags().StringVar(&flagSiteURL, "site-url", share.SiteURL, "Site linked from the share URL")

	toneCmd.Flags().StringVar(&flagHeader, "header", "", "Header the text will appear under")
	toneCmd.Flags().StringVar(&flagToneURL, "tone-url", "", "Tone-adjust endpoint for the enhanced rewrite")
	_ = toneCmd.MarkFlagRequired("header")

	insightCmd.Flags().StringVarP(&flagContext, "context", "c", "", "Reflection step, e.g. \""+insight.ContextLove+"\" or \""+insight.ContextSummary+"\"")
	insightCmd.Flags().StringVarP(&flagQuestion, "question", "q", "", "Question the text answers")

	for _, c := range []*cobra.Command{insightCmd, reflectCmd} {
		c.Flags().StringVarP(&flagModel, "model", "m", envOr("INSIGHT_MODEL", "gpt-3.5-turbo"), "Insight model: "+strings.Join(insight.Models, ", "))
		c.Flags().StringVar(&flagOpenAIAPIKey, "openai-api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
		c.Flags().StringVar(&flagAnthropicAPIKey, "anthropic-api-key", "", "Anthropic API key (overrides ANTHROPIC_API_KEY env var)")
		c.Flags().StringVar(&flagGeminiAPIKey, "gemini-api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	}
	reflectCmd.Flags().StringVar(&flagToneModel, "tone-model", envOr("TONE_MODEL", "gpt-4o-mini"), "Model for the first-person rewrite of the share post")
}

func Execute() error {
	return rootCmd.Execute()
}

func runCompose(cmd *cobra.Command, args []string) error {
	text, err := textArg(cmd, args)
	if err != nil {
		return err
	}

	tmpl := share.Templates{}
	if flagTemplates != "" {
		if tmpl, err = share.LoadTemplates(flagTemplates); err != nil {
			return err
		}
	}

	var adj share.ToneAdjuster
	if flagToneURL != "" {
		adj = tone.NewEnhancer(tone.NewClient(flagToneURL, nil), tone.DefaultTimeout, slog.Default())
	}

	composer := share.NewComposer(share.NewSelector(tmpl, nil), adj, slog.Default())
	fmt.Fprintln(cmd.OutOrStdout(), composer.Compose(cmd.Context(), text))
	if flagLink {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", share.LinkedInURL(flagSiteURL))
	}
	return nil
}

func runTone(cmd *cobra.Command, args []string) error {
	text, err := textArg(cmd, args)
	if err != nil {
		return err
	}

	res := tone.RuleBased(text, flagHeader)
	if flagToneURL != "" {
		enh := tone.NewEnhancer(tone.NewClient(flagToneURL, nil), tone.DefaultTimeout, slog.Default())
		if res, err = enh.Adjust(cmd.Context(), text, flagHeader); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.AdjustedText)
	if !res.WasAdjusted {
		slog.Debug("Text left unchanged", "first_person_header", tone.IsFirstPersonVoice(flagHeader))
	}
	return nil
}

func runInsight(cmd *cobra.Command, args []string) error {
	text, err := textArg(cmd, args)
	if err != nil {
		return err
	}

	gen, err := insight.NewGenerator(cmd.Context(), flagModel, apiKeys())
	if err != nil {
		return err
	}
	svc := insight.NewService(gen, nil, slog.Default())

	res, err := svc.Insight(cmd.Context(), insight.Request{Input: text, Context: flagContext, Question: flagQuestion})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(w io.Writer, res *insight.Result) error {
	if res.Structured == nil {
		_, err := fmt.Fprintln(w, res.Summary)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Structured)
}

// textArg joins args, or reads stdin when there are none.
func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// apiKeys returns provider keys, flags overriding the environment.
func apiKeys() insight.Keys {
	return insight.Keys{
		OpenAI:        firstNonEmpty(flagOpenAIAPIKey, os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Anthropic:     firstNonEmpty(flagAnthropicAPIKey, os.Getenv("ANTHROPIC_API_KEY")),
		Gemini:        firstNonEmpty(flagGeminiAPIKey, os.Getenv("GEMINI_API_KEY")),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
