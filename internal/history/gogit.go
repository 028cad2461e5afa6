package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// GoGitSource walks history in-process with go-git.
type GoGitSource struct {
	Dir string
}

func (g GoGitSource) Messages(ctx context.Context, from string) (*Stream, error) {
	repo, err := git.PlainOpenWithOptions(g.Dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", g.Dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	base, err := repo.ResolveRevision(plumbing.Revision(from))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", from, err)
	}

	return newStream(ctx, func(ctx context.Context, emit emitFunc) error {
		excluded, err := reachable(ctx, repo, *base)
		if err != nil {
			return err
		}

		iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
		if err != nil {
			return fmt.Errorf("failed to walk history from HEAD: %w", err)
		}
		defer iter.Close()

		err = iter.ForEach(func(c *object.Commit) error {
			if excluded[c.Hash] {
				return nil
			}
			if !emit(c.Message) {
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read commits in %s..HEAD: %w", from, err)
		}
		return nil
	}), nil
}

// reachable collects every commit hash reachable from start.
func reachable(ctx context.Context, repo *git.Repository, start plumbing.Hash) (map[plumbing.Hash]bool, error) {
	iter, err := repo.Log(&git.LogOptions{From: start})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from %s: %w", start, err)
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("failed to walk history from %s: %w", start, err)
	}
	return seen, nil
}
