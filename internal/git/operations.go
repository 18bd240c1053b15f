// Package git records which revision of a repository was indexed.
package git

import (
	"os/exec"
	"strings"
)

// Operations defines the interface for git operations.
// This allows mocking git commands in tests.
type Operations interface {
	// CurrentBranch returns the current branch name.
	// For detached HEAD, returns "detached-{short-hash}".
	// Returns "" outside a git repository.
	CurrentBranch(repoPath string) string

	// HeadCommit returns the full hash of HEAD, or "" when unavailable.
	HeadCommit(repoPath string) string

	// Dirty reports whether the worktree has uncommitted changes.
	Dirty(repoPath string) bool
}

// Provenance identifies the indexed revision. Fields are empty when the
// repository is not under git.
type Provenance struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`
	Dirty  bool   `json:"dirty,omitempty"`
}

// Describe collects the provenance of repoPath. It returns nil outside a git
// repository.
func Describe(ops Operations, repoPath string) *Provenance {
	commit := ops.HeadCommit(repoPath)
	if commit == "" {
		return nil
	}
	return &Provenance{
		Branch: ops.CurrentBranch(repoPath),
		Commit: commit,
		Dirty:  ops.Dirty(repoPath),
	}
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) CurrentBranch(repoPath string) string {
	if branch, err := run(repoPath, "branch", "--show-current"); err == nil && branch != "" {
		return branch
	}
	// Might be detached HEAD
	short, err := run(repoPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return "detached-" + short
}

func (g *gitOps) HeadCommit(repoPath string) string {
	commit, err := run(repoPath, "rev-parse", "HEAD")
	if err != nil {
		return ""
	}
	return commit
}

func (g *gitOps) Dirty(repoPath string) bool {
	status, err := run(repoPath, "status", "--porcelain")
	return err == nil && status != ""
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
