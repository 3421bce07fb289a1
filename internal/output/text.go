package output

import (
	"fmt"
	"io"
	"strings"

	"gitmsg/internal/generate"
)

// TextWriter outputs the message plus a short human-readable summary.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, res *generate.Result) error {
	ew := &errWriter{w: w}

	ew.println(res.Message)
	ew.println("")
	ew.println(strings.Repeat("─", 60))
	if res.Repo.Branch != "" {
		ew.printf("Repository: %s (branch: %s)\n", res.Repo.Root, res.Repo.Branch)
	} else {
		ew.printf("Repository: %s\n", res.Repo.Root)
	}
	ew.printf("Provider: %s (%s)", res.Provider, res.Model)
	if res.Cached {
		ew.printf(" [cached]")
	}
	ew.println("")
	ew.printf("Files: %d of %d changed\n", res.IncludedChangedFiles, res.TotalChangedFiles)
	if res.Truncated {
		ew.println("Diff truncated to fit the size limit.")
	}
	ew.printf("Completed in %dms (git: %dms, LLM: %dms)\n",
		res.Timing.TotalMs, res.Timing.GitMs, res.Timing.LLMMs)

	return ew.err
}

// RawWriter outputs only the message itself, suitable for piping into
// git commit -F - or a prepare-commit-msg hook.
type RawWriter struct{}

func (r *RawWriter) Write(w io.Writer, res *generate.Result) error {
	_, err := fmt.Fprintln(w, res.Message)
	return err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
