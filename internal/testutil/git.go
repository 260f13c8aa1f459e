package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// NewTestRepo creates a repository in a temporary directory with a single
// commit and an origin remote, and returns the repository and its path.
func NewTestRepo(t *testing.T, remoteURL string) (*gogit.Repository, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteURL},
	})
	require.NoError(t, err)

	CreateCommit(t, repo, dir, "Initial commit")

	return repo, dir
}

// CreateCommit writes a file named after the message and commits it,
// returning the commit hash.
func CreateCommit(t *testing.T, repo *gogit.Repository, dir, message string) plumbing.Hash {
	t.Helper()

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	name := "file-" + message + ".txt"
	err = os.WriteFile(filepath.Join(dir, name), []byte(message+"\n"), 0644)
	require.NoError(t, err)

	_, err = worktree.Add(name)
	require.NoError(t, err)

	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@example.com",
			When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	return hash
}

// CreateBranch creates a local branch pointing at the given commit.
func CreateBranch(t *testing.T, repo *gogit.Repository, name string, target plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), target)
	require.NoError(t, repo.Storer.SetReference(ref))
}

// CreateTag creates a lightweight tag pointing at the given commit.
func CreateTag(t *testing.T, repo *gogit.Repository, name string, target plumbing.Hash) {
	t.Helper()

	_, err := repo.CreateTag(name, target, nil)
	require.NoError(t, err)
}

// CreateAnnotatedTag creates an annotated tag pointing at the given commit.
func CreateAnnotatedTag(t *testing.T, repo *gogit.Repository, name string, target plumbing.Hash) {
	t.Helper()

	_, err := repo.CreateTag(name, target, &gogit.CreateTagOptions{
		Message: name,
		Tagger: &object.Signature{
			Name:  "test",
			Email: "test@example.com",
			When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
}
