package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Client provides read-only inspection of the checked-out repository. The
// dispatcher only needs to resolve where it is running: the remote
// repository path and the tag that triggered the run.
type Client struct {
	repo *gogit.Repository
}

// Open opens the repository containing path, walking up to find the .git
// directory the way git itself does.
func Open(path string) (*Client, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}
	return &Client{repo: repo}, nil
}

// RemoteRepoPath resolves the owner and name of the hosting-platform
// repository from the origin remote URL.
func (c *Client) RemoteRepoPath() (owner, name string, err error) {
	remote, err := c.repo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("origin remote has no URL")
	}

	return ParseRemoteURL(urls[0])
}

// HeadTag returns the name of a tag pointing at HEAD, or "" if HEAD is not
// tagged. Annotated tags are followed to their target commit.
func (c *Client) HeadTag() (string, error) {
	head, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	tags, err := c.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}

	var found string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tag, tagErr := c.repo.TagObject(hash); tagErr == nil {
			hash = tag.Target
		}
		if hash == head.Hash() {
			found = ref.Name().Short()
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan tags: %w", err)
	}

	return found, nil
}

// BranchExists reports whether a branch exists locally or on origin.
func (c *Client) BranchExists(name string) bool {
	if _, err := c.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil {
		return true
	}
	_, err := c.repo.Reference(plumbing.NewRemoteReferenceName("origin", name), true)
	return err == nil
}

// ParseRemoteURL extracts the owner and repository name from a remote URL in
// either scp-like (git@host:owner/repo.git) or URL (https://host/owner/repo)
// form.
func ParseRemoteURL(raw string) (owner, repo string, err error) {
	path := raw

	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		// Drop user@ and host.
		if i := strings.Index(path, "/"); i >= 0 {
			path = path[i+1:]
		} else {
			path = ""
		}
	} else if i := strings.Index(path, ":"); i >= 0 {
		// scp-like syntax: everything before the colon is user@host.
		path = path[i+1:]
	}

	path = strings.TrimSuffix(path, ".git")
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("cannot parse repository path from remote URL %q", raw)
	}

	return parts[len(parts)-2], parts[len(parts)-1], nil
}
