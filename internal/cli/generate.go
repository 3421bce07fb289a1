package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gitmsg/internal/changes"
	"gitmsg/internal/config"
	"gitmsg/internal/generate"
	"gitmsg/internal/gitrun"
	"gitmsg/internal/output"
	"gitmsg/internal/providers"
)

var (
	flagProvider        string
	flagModel           string
	flagLanguage        string
	flagStaged          bool
	flagFormat          string
	flagOut             string
	flagMaxChangedFiles int
	flagMaxDiffBytes    int
	flagNoTruncate      bool
	flagNoRedact        bool
	flagAdditionalRules string
	flagNoCache         bool
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a commit message for the pending changes",
	Long:    "Collects staged, unstaged, and untracked changes from the current repository and asks the configured LLM provider for a commit message.",
	RunE: func(cmd *cobra.Command, args []string) error {
		runGenerate()
		return nil
	},
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "Message language (en, zh)")
	cmd.Flags().BoolVar(&flagStaged, "staged", false, "Only consider staged changes")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, raw)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&flagMaxChangedFiles, "max-changed-files", 0, "Maximum number of files included in the prompt")
	cmd.Flags().IntVar(&flagMaxDiffBytes, "max-diff-bytes", 0, "Maximum diff size in bytes")
	cmd.Flags().BoolVar(&flagNoTruncate, "no-truncate", false, "Never truncate the diff")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().StringVar(&flagAdditionalRules, "additional-rules", "", "Extra instructions appended to the prompt")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the message cache")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagLanguage != "" {
		m["language"] = flagLanguage
	}
	if flagStaged {
		m["staged"] = "true"
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagMaxChangedFiles > 0 {
		m["maxChangedFiles"] = fmt.Sprintf("%d", flagMaxChangedFiles)
	}
	if flagMaxDiffBytes > 0 {
		m["maxDiffBytes"] = fmt.Sprintf("%d", flagMaxDiffBytes)
	}
	if flagNoTruncate {
		m["noTruncate"] = "true"
	}
	if flagAdditionalRules != "" {
		m["additionalRules"] = flagAdditionalRules
	}
	return m
}

func runGenerate() {
	ctx := context.Background()

	// Repository discovery runs with default limits; the real runner below
	// picks up whatever the layered config says.
	probe := gitrun.Runner{Timeout: 10 * time.Second, MaxOutputBytes: 1 << 20}
	repo, err := changes.RepoMeta(ctx, &probe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	cfg, err := config.Load(repo.Root, buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}

	git := gitrun.Runner{
		Dir:            repo.Root,
		Timeout:        time.Duration(cfg.CommandTimeoutMs) * time.Millisecond,
		MaxOutputBytes: cfg.MaxOutputBytes,
	}

	res, err := generate.Run(ctx, repo, &git, cfg)
	if err != nil {
		if errors.Is(err, generate.ErrNoChanges) {
			fmt.Fprintln(os.Stderr, "No changes detected; nothing to generate.")
			exitCode = ExitRuntimeError
			return
		}
		if providers.IsAuthError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if err := output.WriteResult(res, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
}

func init() {
	addGenerateFlags(generateCmd)
}
