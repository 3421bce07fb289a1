package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitmsg/internal/cache"
	"gitmsg/internal/changes"
	"gitmsg/internal/config"
	"gitmsg/internal/prompt"
	"gitmsg/internal/providers"
	"gitmsg/internal/redact"
	"gitmsg/internal/textutil"
)

// ErrNoChanges is returned when the working tree has nothing to describe.
var ErrNoChanges = errors.New("no changes detected in the working tree")

// Timing contains performance metrics for one generation run.
type Timing struct {
	GitMs   int64 `json:"gitMs"`
	LLMMs   int64 `json:"llmMs"`
	TotalMs int64 `json:"totalMs"`
}

// Result is the outcome of one generation run.
type Result struct {
	Message  string       `json:"message"`
	Provider string       `json:"provider"`
	Model    string       `json:"model"`
	Cached   bool         `json:"cached"`
	Repo     changes.Meta `json:"repo"`

	TotalChangedFiles    int  `json:"totalChangedFiles"`
	IncludedChangedFiles int  `json:"includedChangedFiles"`
	FileLimited          bool `json:"fileLimited"`
	Truncated            bool `json:"truncated"`

	Timing Timing `json:"timing"`
}

// Run collects the repository changes, renders the prompt, and asks the
// configured provider for a commit message.
func Run(ctx context.Context, repo changes.Meta, git changes.Runner, cfg config.Config) (*Result, error) {
	gen, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}
	return RunWith(ctx, repo, git, cfg, gen)
}

// RunWith is Run with an explicit provider, for callers (and tests) that
// construct their own.
func RunWith(ctx context.Context, repo changes.Meta, git changes.Runner, cfg config.Config, gen providers.Generator) (*Result, error) {
	start := time.Now()

	collector := &changes.Collector{Root: repo.Root, Git: git, Cfg: cfg}
	snap, err := collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	gitMs := time.Since(start).Milliseconds()

	if snap.TotalChangedFiles == 0 && textutil.IsBlank(snap.Status) {
		return nil, ErrNoChanges
	}

	// Redact before anything leaves the machine. The snapshot itself stays
	// untouched; only the outgoing prompt sees the redacted diff.
	work := *snap
	if cfg.Privacy.RedactSecrets {
		work.Diff = redact.Secrets(snap.Diff)
	}

	payload := prompt.Build(&work, cfg)

	result := &Result{
		Provider:             gen.Name(),
		Model:                cfg.Model,
		Repo:                 repo,
		TotalChangedFiles:    snap.TotalChangedFiles,
		IncludedChangedFiles: snap.IncludedChangedFiles,
		FileLimited:          snap.FileLimited,
		Truncated:            snap.Truncated,
	}

	store, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	key := cache.BuildKey(gen.Name(), cfg.Model, payload.SystemPrompt, payload.UserPrompt)
	if msg, ok := store.Get(key); ok {
		result.Message = msg
		result.Cached = true
		result.Timing = Timing{GitMs: gitMs, TotalMs: time.Since(start).Milliseconds()}
		return result, nil
	}

	llmStart := time.Now()
	resp, err := gen.Generate(ctx, providers.Request{
		SystemPrompt: payload.SystemPrompt,
		UserPrompt:   payload.UserPrompt,
		MaxTokens:    1024,
		Temperature:  0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generating message: %w", err)
	}
	llmMs := time.Since(llmStart).Milliseconds()

	message := CleanMessage(resp.Content)
	if message == "" {
		return nil, fmt.Errorf("provider returned an empty message")
	}

	// Best effort: a failed cache write just means a miss next time.
	_ = store.Put(key, message)

	result.Message = message
	result.Timing = Timing{GitMs: gitMs, LLMMs: llmMs, TotalMs: time.Since(start).Milliseconds()}
	return result, nil
}

// CleanMessage strips the wrappers models sometimes add despite
// instructions: surrounding code fences and quotes, plus outer whitespace.
func CleanMessage(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop a language tag on the opening fence.
		if idx := strings.Index(s, "\n"); idx >= 0 && !strings.Contains(s[:idx], " ") {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	for _, q := range []string{`"`, "'", "`"} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	return s
}
