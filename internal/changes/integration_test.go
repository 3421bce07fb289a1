package changes

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gitmsg/internal/config"
	"gitmsg/internal/gitrun"
)

// initRepo creates a real git repository with one committed file.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q")
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("original\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "a.txt")
	run("commit", "-q", "-m", "initial")
	return dir
}

func TestCollect_RealRepository(t *testing.T) {
	dir := initRepo(t)

	// Stage a modification to a.txt and drop an untracked binary file.
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("original\nchanged\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	add := exec.Command("git", "add", "a.txt")
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		t.Fatalf("git add: %v\n%s", err, out)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.bin"), []byte{0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &gitrun.Runner{Dir: dir, Timeout: 30 * time.Second, MaxOutputBytes: 10 << 20}
	cfg := config.Default()
	c := &Collector{Root: dir, Git: runner, Cfg: cfg}

	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.TotalChangedFiles != 2 || snap.IncludedChangedFiles != 2 {
		t.Errorf("counts = %d/%d, want 2/2", snap.TotalChangedFiles, snap.IncludedChangedFiles)
	}
	if !strings.Contains(snap.Diff, "File: a.txt") || !strings.Contains(snap.Diff, "Staged diff:") {
		t.Errorf("missing staged block:\n%s", snap.Diff)
	}
	if !strings.Contains(snap.Diff, "+changed") {
		t.Errorf("staged diff content missing:\n%s", snap.Diff)
	}
	if !strings.Contains(snap.Diff, "File: b.bin") || !strings.Contains(snap.Diff, "[Skipped binary file]") {
		t.Errorf("missing binary placeholder:\n%s", snap.Diff)
	}
	if snap.Status == "" {
		t.Error("status should be non-empty for a dirty tree")
	}
}

func TestRepoMeta_RealRepository(t *testing.T) {
	dir := initRepo(t)
	runner := &gitrun.Runner{Dir: dir, Timeout: 30 * time.Second}

	meta, err := RepoMeta(context.Background(), runner)
	if err != nil {
		t.Fatalf("RepoMeta: %v", err)
	}
	if meta.Root == "" || meta.Head == "" || meta.Branch == "" {
		t.Errorf("meta = %+v, want all fields populated", meta)
	}
	// macOS tempdirs resolve through symlinks, so compare by suffix.
	if !strings.HasSuffix(meta.Root, filepath.Base(dir)) {
		t.Errorf("Root = %q, want inside %q", meta.Root, dir)
	}
}

func TestRepoMeta_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	runner := &gitrun.Runner{Dir: t.TempDir(), Timeout: 30 * time.Second}
	if _, err := RepoMeta(context.Background(), runner); err == nil {
		t.Error("expected error outside a repository")
	}
}
