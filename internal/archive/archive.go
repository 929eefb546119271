// Package archive keeps a local git repository with one commit per
// published snapshot, giving the admin an offline-readable publish
// history alongside the remote copy.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const snapshotFile = "site.json"

// CommitInfo describes one published snapshot in the archive.
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service owns the archive repository. All operations are serialized;
// publishes are rare and operator-driven.
type Service struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Service {
	return &Service{dir: dir}
}

// ensureRepo opens the archive repository, initializing it on first use.
func (s *Service) ensureRepo() (*git.Repository, error) {
	repo, err := git.PlainOpen(s.dir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open archive repo: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	repo, err = git.PlainInit(s.dir, false)
	if err != nil {
		return nil, fmt.Errorf("init archive repo: %w", err)
	}
	return repo, nil
}

// Record commits the snapshot payload. Identical consecutive payloads
// still commit (AllowEmptyCommits) so every publish attempt is visible in
// the history.
func (s *Service) Record(payload []byte, author, message string) (CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := s.ensureRepo()
	if err != nil {
		return CommitInfo{}, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open worktree: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), payload, 0o644); err != nil {
		return CommitInfo{}, fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := worktree.Add(snapshotFile); err != nil {
		return CommitInfo{}, fmt.Errorf("git add snapshot: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  author,
			Email: "publish@mdcsite.local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("commit snapshot: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

// History returns the most recent publishes, newest first.
func (s *Service) History(limit int) ([]CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return []CommitInfo{}, nil
		}
		return nil, fmt.Errorf("open archive repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []CommitInfo{}, nil
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]CommitInfo, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toCommitInfo(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

// Snapshot returns the payload recorded at the given commit hash.
func (s *Service) Snapshot(hash string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return nil, fmt.Errorf("open archive repo: %w", err)
	}

	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", hash, err)
	}
	commitObj, err := repo.CommitObject(*resolved)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}

	file, err := commitObj.File(snapshotFile)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from commit: %w", err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("open snapshot reader: %w", err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func toCommitInfo(commitObj *object.Commit) CommitInfo {
	return CommitInfo{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}
