package gitexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/maxbolgarin/errm"
)

const (
	// mboxMagicDate is the fixed date git puts into the "From <sha>" line
	mboxMagicDate = "Mon Sep 17 00:00:00 2001"
	mboxDateFmt   = "Mon, 2 Jan 2006 15:04:05 -0700"
	shortHashLen  = 7
)

// GoGitBackend reads repositories in-process with go-git and renders
// the same text formats the git binary prints.
type GoGitBackend struct{}

func NewGoGitBackend() *GoGitBackend {
	return &GoGitBackend{}
}

func (b *GoGitBackend) FormatPatch(ctx context.Context, repoPath, commitID string) ([]string, error) {
	repo, err := open(repoPath)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, commitID)
	if err != nil {
		return nil, err
	}
	p, err := commitPatch(ctx, commit)
	if err != nil {
		return nil, errm.Wrap(err, "failed to build patch for "+commit.Hash.String())
	}
	return formatMbox(commit, p), nil
}

func (b *GoGitBackend) LogNumStat(ctx context.Context, repoPath, separator string, revs ...string) ([]string, error) {
	repo, err := open(repoPath)
	if err != nil {
		return nil, err
	}

	var from, to string
	if len(revs) > 0 {
		from, to = splitRange(revs[0])
	}

	var lines []string
	err = walk(repo, from, to, func(c *object.Commit) error {
		subject, _ := splitMessage(c.Message)
		lines = append(lines, fmt.Sprintf("%s:%s:%s:%s", separator, c.Hash.String()[:shortHashLen], c.Author.Name, subject), "")
		if c.NumParents() > 1 {
			// git log prints no numstat for merges
			return nil
		}
		stats, err := c.StatsContext(ctx)
		if err != nil {
			return errm.Wrap(err, "failed to get stats for "+c.Hash.String())
		}
		for _, st := range stats {
			lines = append(lines, fmt.Sprintf("%d\t%d\t%s", st.Addition, st.Deletion, st.Name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

func (b *GoGitBackend) CommitIDs(ctx context.Context, repoPath, from, to string) ([]string, error) {
	repo, err := open(repoPath)
	if err != nil {
		return nil, err
	}

	var ids []string
	err = walk(repo, from, to, func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.NumParents() > 1 {
			return nil
		}
		ids = append(ids, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func open(repoPath string) (*git.Repository, error) {
	if repoPath == "" {
		return nil, ErrEmptyRepoPath
	}
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errm.Wrap(err, "failed to open repository "+repoPath)
	}
	return repo, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, errm.Wrap(ErrCommitNotFound, rev)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, errm.Wrap(ErrCommitNotFound, rev)
	}
	return commit, nil
}

// walk visits commits reachable from to (HEAD by default) and not reachable from from, newest first.
func walk(repo *git.Repository, from, to string, fn func(c *object.Commit) error) error {
	exclude := make(map[plumbing.Hash]struct{})
	if from != "" {
		start, err := resolveCommit(repo, from)
		if err != nil {
			return err
		}
		iter, err := repo.Log(&git.LogOptions{From: start.Hash})
		if err != nil {
			return errm.Wrap(err, "failed to read log of "+from)
		}
		err = iter.ForEach(func(c *object.Commit) error {
			exclude[c.Hash] = struct{}{}
			return nil
		})
		if err != nil {
			return errm.Wrap(err, "failed to read log of "+from)
		}
	}

	head, err := resolveCommit(repo, to)
	if err != nil {
		return err
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return errm.Wrap(err, "failed to read log of "+to)
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		if _, ok := exclude[c.Hash]; ok {
			return nil
		}
		return fn(c)
	})
}

func commitPatch(ctx context.Context, commit *object.Commit) (*object.Patch, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	parentTree := &object.Tree{}
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	return parentTree.PatchContext(ctx, tree)
}

// formatMbox renders a commit the way "git format-patch --stdout" does.
func formatMbox(c *object.Commit, p *object.Patch) []string {
	subject, body := splitMessage(c.Message)

	lines := []string{
		fmt.Sprintf("From %s %s", c.Hash.String(), mboxMagicDate),
		fmt.Sprintf("From: %s <%s>", c.Author.Name, c.Author.Email),
		"Date: " + c.Author.When.Format(mboxDateFmt),
		"Subject: [PATCH] " + subject,
		"",
	}
	if body != "" {
		lines = append(lines, splitLines(body)...)
		lines = append(lines, "")
	}

	stats := p.Stats()
	lines = append(lines, "---")
	lines = append(lines, splitLines(stats.String())...)
	lines = append(lines, summaryLine(stats), "")
	lines = append(lines, splitLines(p.String())...)

	return lines
}

func summaryLine(stats object.FileStats) string {
	var added, removed int
	for _, st := range stats {
		added += st.Addition
		removed += st.Deletion
	}
	files := "files"
	if len(stats) == 1 {
		files = "file"
	}
	return fmt.Sprintf(" %d %s changed, %d insertions(+), %d deletions(-)", len(stats), files, added, removed)
}

func splitMessage(msg string) (subject, body string) {
	msg = strings.TrimSpace(msg)
	subject, body, _ = strings.Cut(msg, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}

func splitRange(rev string) (from, to string) {
	if left, right, ok := strings.Cut(rev, ".."); ok {
		return left, strings.TrimPrefix(right, ".")
	}
	return "", rev
}
