package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gitmsg/internal/changes"
	"gitmsg/internal/generate"
)

func sampleResult() *generate.Result {
	return &generate.Result{
		Message:              "✨ feat(api): add rate limiting",
		Provider:             "anthropic",
		Model:                "claude-sonnet-4-20250514",
		Repo:                 changes.Meta{Root: "/src/app", Branch: "main"},
		TotalChangedFiles:    5,
		IncludedChangedFiles: 5,
		Timing:               generate.Timing{GitMs: 12, LLMMs: 800, TotalMs: 815},
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json", "raw"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q): %v", format, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("GetWriter should reject unknown formats")
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResult()
	res.Truncated = true
	res.Cached = true
	if err := (&TextWriter{}).Write(&buf, res); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, res.Message+"\n") {
		t.Errorf("output should start with the message:\n%s", out)
	}
	for _, want := range []string{
		"Repository: /src/app (branch: main)",
		"anthropic (claude-sonnet-4-20250514)",
		"[cached]",
		"Files: 5 of 5",
		"Diff truncated",
		"Completed in 815ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextWriterNoBranch(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResult()
	res.Repo.Branch = ""
	if err := (&TextWriter{}).Write(&buf, res); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "branch:") {
		t.Error("should omit the branch when unknown")
	}
}

func TestRawWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&RawWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "✨ feat(api): add rate limiting\n" {
		t.Errorf("raw output = %q", got)
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded generate.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Message != "✨ feat(api): add rate limiting" {
		t.Errorf("Message = %q", decoded.Message)
	}
	if decoded.Timing.LLMMs != 800 {
		t.Errorf("Timing.LLMMs = %d", decoded.Timing.LLMMs)
	}
}
