// Package git tags sessions with the repository they were started in,
// using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xvierd/unfocus/internal/ports"
)

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect finds the repository containing workingDir and reports its branch,
// HEAD commit and name.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, root, err := open(workingDir)
	if err != nil {
		return nil, err
	}

	info := &ports.GitInfo{Repository: repoName(repo, root)}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Fresh repository without commits: HEAD names the unborn branch.
		ref, refErr := repo.Reference(plumbing.HEAD, false)
		if refErr == nil && ref.Type() == plumbing.SymbolicReference {
			info.Branch = ref.Target().Short()
		}
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	info.Branch = head.Name().Short()
	if !head.Name().IsBranch() {
		info.Branch = "HEAD detached"
	}
	info.Commit = head.Hash().String()

	return info, nil
}

// IsAvailable reports whether the current directory is inside a repository.
func (d *Detector) IsAvailable() bool {
	_, _, err := open("")
	return err == nil
}

// open locates the repository for dir, searching parent directories.
func open(dir string) (*git.Repository, string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", fmt.Errorf("git repository not found: %w", err)
	}

	root := dir
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return repo, root, nil
}

// repoName prefers the origin remote's owner/name and falls back to the
// worktree directory name.
func repoName(repo *git.Repository, root string) string {
	remote, err := repo.Remote("origin")
	if err != nil {
		remotes, listErr := repo.Remotes()
		if listErr != nil || len(remotes) == 0 {
			return filepath.Base(root)
		}
		remote = remotes[0]
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return filepath.Base(root)
	}
	return extractRepoName(urls[0])
}

// extractRepoName extracts "owner/repo" from a git URL.
func extractRepoName(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")

	// SSH URLs like git@github.com:user/repo
	if strings.HasPrefix(url, "git@") {
		if i := strings.LastIndex(url, ":"); i >= 0 {
			return url[i+1:]
		}
	}

	// HTTPS or ssh:// URLs like https://github.com/user/repo
	if i := strings.Index(url, "://"); i >= 0 {
		parts := strings.Split(url[i+3:], "/")
		if len(parts) >= 3 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1]
		}
		return parts[len(parts)-1]
	}

	return filepath.Base(url)
}
