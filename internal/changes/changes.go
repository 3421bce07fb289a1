package changes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitmsg/internal/config"
	"gitmsg/internal/textutil"
)

// Placeholder texts emitted for untracked files that cannot be shown inline.
const (
	skippedNonRegular = "[Skipped non-regular file]"
	skippedBinary     = "[Skipped binary file]"
	emptyTextFile     = "[Empty text file]"
)

// Section labels inside a per-file block.
const (
	labelStaged    = "Staged diff:"
	labelUnstaged  = "Unstaged diff:"
	labelUntracked = "Untracked file content:"
)

// Runner executes a git command and returns its stdout. *gitrun.Runner
// satisfies it; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Snapshot is the bounded textual representation of a repository's current
// changes. It is immutable once built.
type Snapshot struct {
	// Status is git's short-status summary, possibly empty.
	Status string
	// Diff is the merged per-file change text, possibly truncated.
	Diff string
	// Truncated is true when Diff was cut to fit the byte budget.
	Truncated bool
	// FileLimited is true when more files changed than the file-count
	// budget allowed into Diff.
	FileLimited bool
	// TotalChangedFiles counts every distinct changed path discovered.
	TotalChangedFiles int
	// IncludedChangedFiles counts the paths actually selected for Diff.
	// Always <= TotalChangedFiles. Selected paths whose sections all turn
	// out blank still count here; the provenance note in the prompt uses
	// these numbers.
	IncludedChangedFiles int
}

// Collector produces one Snapshot per invocation against one repository root.
type Collector struct {
	Root string
	Git  Runner
	Cfg  config.Config
}

// Collect queries git for status, per-view file lists, and per-file diffs,
// and assembles the bounded Snapshot. Any git failure aborts the whole
// collection; only untracked-file disk reads degrade to placeholder text.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	status, err := c.Git.Run(ctx, "status", "--short")
	if err != nil {
		return nil, fmt.Errorf("collecting status: %w", err)
	}

	staged, err := c.listPaths(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("listing staged files: %w", err)
	}

	var unstaged, untracked []string
	if !c.Cfg.IncludeOnlyStaged {
		unstaged, err = c.listPaths(ctx, "diff", "--name-only")
		if err != nil {
			return nil, fmt.Errorf("listing unstaged files: %w", err)
		}
		untracked, err = c.listPaths(ctx, "ls-files", "--others", "--exclude-standard")
		if err != nil {
			return nil, fmt.Errorf("listing untracked files: %w", err)
		}
	}

	// Merge preserving first-seen order. Staged paths come first, so when
	// the count budget cuts the list, staged changes win over unstaged,
	// which win over untracked.
	merged := mergePaths(staged, unstaged, untracked)
	total := len(merged)

	working := merged
	if len(working) > c.Cfg.MaxChangedFiles {
		working = working[:c.Cfg.MaxChangedFiles]
	}

	stagedSet := toSet(staged)
	unstagedSet := toSet(unstaged)
	untrackedSet := toSet(untracked)

	var blocks []string
	for _, path := range working {
		block, err := c.fileBlock(ctx, path, stagedSet[path], unstagedSet[path], untrackedSet[path])
		if err != nil {
			return nil, err
		}
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	diff := strings.Join(blocks, "\n\n")
	truncated := false
	if c.Cfg.TruncateDiff {
		diff, truncated = textutil.Truncate(diff, c.Cfg.MaxDiffBytes)
	}

	return &Snapshot{
		Status:               strings.TrimSpace(status),
		Diff:                 diff,
		Truncated:            truncated,
		FileLimited:          total > len(working),
		TotalChangedFiles:    total,
		IncludedChangedFiles: len(working),
	}, nil
}

// fileBlock renders the per-file block for path, or "" when every candidate
// section is blank.
func (c *Collector) fileBlock(ctx context.Context, path string, inStaged, inUnstaged, inUntracked bool) (string, error) {
	var sections []string

	if inStaged {
		text, err := c.Git.Run(ctx, "diff", "--cached", "--no-color", "--no-ext-diff", "--", path)
		if err != nil {
			return "", fmt.Errorf("staged diff for %s: %w", path, err)
		}
		if !textutil.IsBlank(text) {
			sections = append(sections, labelStaged+"\n"+strings.TrimSpace(text))
		}
	}

	if inUnstaged {
		text, err := c.Git.Run(ctx, "diff", "--no-color", "--no-ext-diff", "--", path)
		if err != nil {
			return "", fmt.Errorf("unstaged diff for %s: %w", path, err)
		}
		if !textutil.IsBlank(text) {
			sections = append(sections, labelUnstaged+"\n"+strings.TrimSpace(text))
		}
	}

	if inUntracked {
		// Untracked content comes straight from disk, so failures here
		// are downgraded to placeholders instead of aborting collection.
		sections = append(sections, labelUntracked+"\n"+c.untrackedContent(path))
	}

	if len(sections) == 0 {
		return "", nil
	}
	return "File: " + path + "\n" + strings.Join(sections, "\n"), nil
}

// untrackedContent reads an untracked file and returns its text, or a
// placeholder describing why the content is not shown.
func (c *Collector) untrackedContent(path string) string {
	full := filepath.Join(c.Root, path)

	info, err := os.Stat(full)
	if err != nil {
		return fmt.Sprintf("[Untracked file unavailable: %s]", err.Error())
	}
	if !info.Mode().IsRegular() {
		return skippedNonRegular
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return fmt.Sprintf("[Untracked file unavailable: %s]", err.Error())
	}
	if textutil.IsBinary(data) {
		return skippedBinary
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return emptyTextFile
	}
	return text
}

// listPaths runs a git command whose stdout is one path per line.
func (c *Collector) listPaths(ctx context.Context, args ...string) ([]string, error) {
	out, err := c.Git.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// mergePaths concatenates the lists, keeping each distinct path once in
// first-seen order.
func mergePaths(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				merged = append(merged, p)
			}
		}
	}
	return merged
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}
