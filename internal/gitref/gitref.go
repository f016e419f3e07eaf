// SPDX-License-Identifier: MPL-2.0

// Package gitref reads branch information from the local Git checkout.
package gitref

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ErrNotARepository is returned when no Git repository contains the directory.
	ErrNotARepository = errors.New("not a git repository")
	// ErrDetachedHead is returned when HEAD points at a commit instead of a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

// CurrentBranch returns the short name of the branch HEAD points to in the
// repository containing dir. Parent directories are searched for .git.
// An unborn branch (a fresh repository with no commits) is still reported.
func CurrentBranch(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	// Read HEAD without resolving it so branches with no commits still work.
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Target().Short(), nil
}
