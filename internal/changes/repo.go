package changes

import (
	"context"
	"fmt"
	"strings"
)

// Meta contains git repository metadata.
type Meta struct {
	Root   string
	Head   string
	Branch string
}

// RepoMeta collects repository metadata. A missing HEAD or branch (fresh
// repository with no commits, detached head) is tolerated and left empty;
// not being in a repository at all is an error.
func RepoMeta(ctx context.Context, git Runner) (Meta, error) {
	root, err := git.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return Meta{}, fmt.Errorf("not a git repository: %w", err)
	}
	head, err := git.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		head = ""
	}
	branch, err := git.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return Meta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}
