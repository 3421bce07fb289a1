package changes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitmsg/internal/config"
	"gitmsg/internal/textutil"
)

// fakeGit maps a joined argument string to canned stdout or an error.
type fakeGit struct {
	out   map[string]string
	fail  map[string]error
	calls []string
}

func (f *fakeGit) Run(_ context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.fail[key]; ok {
		return "", err
	}
	return f.out[key], nil
}

func testCfg() config.Config {
	cfg := config.Default()
	cfg.MaxChangedFiles = 10
	cfg.MaxDiffBytes = 100000
	return cfg
}

func stagedDiffKey(path string) string {
	return "diff --cached --no-color --no-ext-diff -- " + path
}

func unstagedDiffKey(path string) string {
	return "diff --no-color --no-ext-diff -- " + path
}

func TestCollect_MergeDedupOrder(t *testing.T) {
	git := &fakeGit{out: map[string]string{
		"status --short":                    " M a.txt\n",
		"diff --cached --name-only":         "a.txt\nb.txt\n",
		"diff --name-only":                  "b.txt\nc.txt\n",
		"ls-files --others --exclude-standard": "c.txt\nd.txt\n",
		stagedDiffKey("a.txt"):              "diff a",
		stagedDiffKey("b.txt"):              "diff b",
		unstagedDiffKey("b.txt"):            "diff b2",
		unstagedDiffKey("c.txt"):            "diff c",
	}}
	root := t.TempDir()
	for _, name := range []string{"c.txt", "d.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(name+" content\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := &Collector{Root: root, Git: git, Cfg: testCfg()}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if snap.TotalChangedFiles != 4 {
		t.Errorf("TotalChangedFiles = %d, want 4 (deduped)", snap.TotalChangedFiles)
	}
	if snap.IncludedChangedFiles != 4 || snap.FileLimited {
		t.Errorf("included = %d, limited = %v", snap.IncludedChangedFiles, snap.FileLimited)
	}

	// Blocks appear in first-seen order: a, b, c, d.
	order := []string{"File: a.txt", "File: b.txt", "File: c.txt", "File: d.txt"}
	last := -1
	for _, header := range order {
		idx := strings.Index(snap.Diff, header)
		if idx < 0 {
			t.Fatalf("diff missing %q:\n%s", header, snap.Diff)
		}
		if idx < last {
			t.Errorf("%q out of order", header)
		}
		last = idx
	}
	if strings.Count(snap.Diff, "File: b.txt") != 1 {
		t.Error("b.txt should contribute exactly one block")
	}
	// b.txt is both staged and unstaged: one block, two sections.
	if !strings.Contains(snap.Diff, "Staged diff:\ndiff b") || !strings.Contains(snap.Diff, "Unstaged diff:\ndiff b2") {
		t.Errorf("b.txt block should have both sections:\n%s", snap.Diff)
	}
}

func TestCollect_FileCountBudgetPriority(t *testing.T) {
	git := &fakeGit{out: map[string]string{
		"status --short":                    " M a.txt\n?? b.bin\n",
		"diff --cached --name-only":         "a.txt\n",
		"ls-files --others --exclude-standard": "b.bin\n",
		stagedDiffKey("a.txt"):              "--- a/a.txt\n+content\n",
	}}
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "b.bin"), []byte{0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testCfg()
	cfg.MaxChangedFiles = 1
	c := &Collector{Root: root, Git: git, Cfg: cfg}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if !snap.FileLimited {
		t.Error("FileLimited should be true")
	}
	if snap.TotalChangedFiles != 2 || snap.IncludedChangedFiles != 1 {
		t.Errorf("counts = %d/%d, want 2 total, 1 included", snap.TotalChangedFiles, snap.IncludedChangedFiles)
	}
	if !strings.Contains(snap.Diff, "File: a.txt") {
		t.Error("staged file should win the count budget")
	}
	if strings.Contains(snap.Diff, "b.bin") {
		t.Error("untracked file should be cut by the count budget")
	}
}

func TestCollect_EndToEndScenario(t *testing.T) {
	// One staged modified file plus one untracked binary file.
	git := &fakeGit{out: map[string]string{
		"status --short":                    " M a.txt\n?? b.bin\n",
		"diff --cached --name-only":         "a.txt\n",
		"ls-files --others --exclude-standard": "b.bin\n",
		stagedDiffKey("a.txt"):              "--- a/a.txt\n+content\n",
	}}
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "b.bin"), []byte{0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	c := &Collector{Root: root, Git: git, Cfg: testCfg()}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if snap.TotalChangedFiles != 2 || snap.IncludedChangedFiles != 2 {
		t.Errorf("counts = %d/%d, want 2/2", snap.TotalChangedFiles, snap.IncludedChangedFiles)
	}
	if snap.FileLimited || snap.Truncated {
		t.Errorf("limited = %v, truncated = %v, want false/false", snap.FileLimited, snap.Truncated)
	}
	if !strings.Contains(snap.Diff, "File: a.txt") || !strings.Contains(snap.Diff, "Staged diff:") {
		t.Errorf("missing staged block:\n%s", snap.Diff)
	}
	if !strings.Contains(snap.Diff, "File: b.bin") || !strings.Contains(snap.Diff, "[Skipped binary file]") {
		t.Errorf("missing binary placeholder:\n%s", snap.Diff)
	}
}

func TestCollect_BlankSectionsOmittedButCounted(t *testing.T) {
	git := &fakeGit{out: map[string]string{
		"status --short":            "M  a.txt\nM  b.txt\n",
		"diff --cached --name-only": "a.txt\nb.txt\n",
		stagedDiffKey("a.txt"):      "   \n",
		stagedDiffKey("b.txt"):      "real diff\n",
	}}
	cfg := testCfg()
	cfg.IncludeOnlyStaged = true
	c := &Collector{Root: t.TempDir(), Git: git, Cfg: cfg}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if strings.Contains(snap.Diff, "a.txt") {
		t.Error("file with only blank sections should render no block")
	}
	if !strings.Contains(snap.Diff, "File: b.txt") {
		t.Error("b.txt block missing")
	}
	// The invisible file still counts toward the included total.
	if snap.IncludedChangedFiles != 2 {
		t.Errorf("IncludedChangedFiles = %d, want 2", snap.IncludedChangedFiles)
	}
}

func TestCollect_IncludeOnlyStaged(t *testing.T) {
	git := &fakeGit{out: map[string]string{
		"status --short":            "M  a.txt\n",
		"diff --cached --name-only": "a.txt\n",
		stagedDiffKey("a.txt"):      "diff a\n",
	}}
	cfg := testCfg()
	cfg.IncludeOnlyStaged = true
	c := &Collector{Root: t.TempDir(), Git: git, Cfg: cfg}
	if _, err := c.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	for _, call := range git.calls {
		if call == "diff --name-only" || strings.HasPrefix(call, "ls-files") {
			t.Errorf("staged-only collection ran %q", call)
		}
	}
}

func TestCollect_UntrackedPlaceholders(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "adir"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "bin.dat"), []byte{0x00, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "empty.txt"), []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	git := &fakeGit{out: map[string]string{
		"status --short":                    "?? adir/\n?? bin.dat\n?? empty.txt\n?? gone.txt\n",
		"diff --cached --name-only":         "",
		"diff --name-only":                  "",
		"ls-files --others --exclude-standard": "adir\nbin.dat\nempty.txt\ngone.txt\n",
	}}
	c := &Collector{Root: root, Git: git, Cfg: testCfg()}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	cases := []struct {
		path string
		want string
	}{
		{"adir", skippedNonRegular},
		{"bin.dat", skippedBinary},
		{"empty.txt", emptyTextFile},
		{"gone.txt", "[Untracked file unavailable: "},
	}
	for _, tt := range cases {
		block := "File: " + tt.path + "\n" + labelUntracked
		if !strings.Contains(snap.Diff, block) {
			t.Errorf("missing untracked block for %s:\n%s", tt.path, snap.Diff)
		}
		if !strings.Contains(snap.Diff, tt.want) {
			t.Errorf("missing placeholder %q for %s", tt.want, tt.path)
		}
	}
}

func TestCollect_UntrackedRealContent(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("# notes\nhello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	git := &fakeGit{out: map[string]string{
		"status --short":                    "?? notes.md\n",
		"diff --cached --name-only":         "",
		"diff --name-only":                  "",
		"ls-files --others --exclude-standard": "notes.md\n",
	}}
	c := &Collector{Root: root, Git: git, Cfg: testCfg()}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !strings.Contains(snap.Diff, "Untracked file content:\n# notes\nhello") {
		t.Errorf("untracked text content missing:\n%s", snap.Diff)
	}
}

func TestCollect_Truncation(t *testing.T) {
	big := strings.Repeat("+added line\n", 2000)
	git := &fakeGit{out: map[string]string{
		"status --short":            "M  a.txt\n",
		"diff --cached --name-only": "a.txt\n",
		stagedDiffKey("a.txt"):      big,
	}}
	cfg := testCfg()
	cfg.IncludeOnlyStaged = true
	cfg.MaxDiffBytes = 4096
	c := &Collector{Root: t.TempDir(), Git: git, Cfg: cfg}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !snap.Truncated {
		t.Error("oversized diff should be truncated")
	}
	if len(snap.Diff) > 4096+len(textutil.TruncationMarker) {
		t.Errorf("diff length %d exceeds budget plus marker", len(snap.Diff))
	}
	if !strings.HasSuffix(snap.Diff, textutil.TruncationMarker) {
		t.Error("truncated diff should end with the marker")
	}
}

func TestCollect_TruncationDisabled(t *testing.T) {
	big := strings.Repeat("+added line\n", 2000)
	git := &fakeGit{out: map[string]string{
		"status --short":            "M  a.txt\n",
		"diff --cached --name-only": "a.txt\n",
		stagedDiffKey("a.txt"):      big,
	}}
	cfg := testCfg()
	cfg.IncludeOnlyStaged = true
	cfg.MaxDiffBytes = 4096
	cfg.TruncateDiff = false
	c := &Collector{Root: t.TempDir(), Git: git, Cfg: cfg}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.Truncated {
		t.Error("Truncated must stay false when truncation is disabled")
	}
	if len(snap.Diff) <= 4096 {
		t.Error("diff should keep its full size when truncation is disabled")
	}
}

func TestCollect_StatusFailureFatal(t *testing.T) {
	git := &fakeGit{
		out:  map[string]string{},
		fail: map[string]error{"status --short": errors.New("boom")},
	}
	c := &Collector{Root: t.TempDir(), Git: git, Cfg: testCfg()}
	if _, err := c.Collect(context.Background()); err == nil {
		t.Fatal("status failure must abort collection")
	}
}

func TestCollect_PerFileDiffFailureFatal(t *testing.T) {
	git := &fakeGit{
		out: map[string]string{
			"status --short":            "M  a.txt\n",
			"diff --cached --name-only": "a.txt\n",
		},
		fail: map[string]error{stagedDiffKey("a.txt"): errors.New("boom")},
	}
	cfg := testCfg()
	cfg.IncludeOnlyStaged = true
	c := &Collector{Root: t.TempDir(), Git: git, Cfg: cfg}
	_, err := c.Collect(context.Background())
	if err == nil {
		t.Fatal("per-file git diff failure must abort collection")
	}
	if !strings.Contains(err.Error(), "a.txt") {
		t.Errorf("error %q should identify the failing path", err)
	}
}

func TestCollect_CleanTree(t *testing.T) {
	git := &fakeGit{out: map[string]string{}}
	c := &Collector{Root: t.TempDir(), Git: git, Cfg: testCfg()}
	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.TotalChangedFiles != 0 || snap.Diff != "" || snap.Status != "" {
		t.Errorf("clean tree snapshot = %+v", snap)
	}
	if snap.FileLimited || snap.Truncated {
		t.Error("clean tree should not be limited or truncated")
	}
}

func TestMergePaths(t *testing.T) {
	got := mergePaths(
		[]string{"a", "b"},
		[]string{"b", "c", "a"},
		[]string{"d", "c"},
	)
	want := []string{"a", "b", "c", "d"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("mergePaths = %v, want %v", got, want)
	}
}
