// Package gitx provides the small amount of version-control plumbing the
// updaters need: restoring a generated subtree to its committed state after
// a dry-run probe of an external tool that has no non-mutating mode.
package gitx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const restoredFileMode = 0o644

// RestoreDir rewrites every file under dir (relative to repoPath) with its
// content at HEAD. Files created since HEAD and not part of the committed
// tree are left in place; the callers only need the tracked, generated
// files back in their committed state.
func RestoreDir(repoPath, dir string) error {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open repository at %q: %w", repoPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to resolve worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	prefix, err := treePrefix(root, repoPath, dir)
	if err != nil {
		return err
	}

	tree, err := headTree(repo)
	if err != nil {
		return err
	}

	return tree.Files().ForEach(func(f *object.File) error {
		if !strings.HasPrefix(f.Name, prefix) {
			return nil
		}

		content, contentErr := f.Contents()
		if contentErr != nil {
			return fmt.Errorf("failed to read %q from HEAD: %w", f.Name, contentErr)
		}

		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
			return fmt.Errorf("failed to create directory for %q: %w", f.Name, mkErr)
		}
		if writeErr := os.WriteFile(target, []byte(content), restoredFileMode); writeErr != nil {
			return fmt.Errorf("failed to restore %q: %w", f.Name, writeErr)
		}
		return nil
	})
}

// treePrefix converts dir (relative to repoPath, which may itself be a
// subdirectory of the repository) into the slash-separated tree prefix used
// by git object paths.
func treePrefix(worktreeRoot, repoPath, dir string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(repoPath, dir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	rel, err := filepath.Rel(worktreeRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("directory %q is outside the repository at %q", dir, worktreeRoot)
	}

	return filepath.ToSlash(rel) + "/", nil
}

func headTree(repo *git.Repository) (*object.Tree, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree: %w", err)
	}
	return tree, nil
}
