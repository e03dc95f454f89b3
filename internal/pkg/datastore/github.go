package datastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v66/github"
)

// GitHubStore keeps datasets as files in a GitHub repository. Every write
// and delete is a commit; the revision is the blob SHA.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// NewGitHubClient builds an authenticated client. baseURL selects a GitHub
// Enterprise host and may be empty.
func NewGitHubClient(token, baseURL string) (*github.Client, error) {
	client := github.NewClient(nil).WithAuthToken(token)
	if baseURL == "" {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github base url: %w", err)
	}
	return client, nil
}

// NewGitHubStore returns a store over owner/repo. An empty branch uses the
// repository's default branch.
func NewGitHubStore(client *github.Client, owner, repo, branch string) *GitHubStore {
	return &GitHubStore{client: client, owner: owner, repo: repo, branch: branch}
}

func (s *GitHubStore) branchRef() *string {
	if s.branch == "" {
		return nil
	}
	return github.String(s.branch)
}

func (s *GitHubStore) Read(ctx context.Context, path string) (*Object, error) {
	opts := &github.RepositoryContentGetOptions{Ref: s.branch}
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, unavailable("read", path, err)
	}
	if file == nil {
		return nil, ErrNotFound
	}

	// Files above the contents API size limit come back without inline content.
	if file.GetEncoding() == "none" {
		rc, _, err := s.client.Repositories.DownloadContents(ctx, s.owner, s.repo, path, opts)
		if err != nil {
			return nil, unavailable("download", path, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, unavailable("download", path, err)
		}
		return &Object{Path: path, Data: data, Revision: file.GetSHA()}, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, unavailable("decode", path, err)
	}
	return &Object{Path: path, Data: []byte(content), Revision: file.GetSHA()}, nil
}

func (s *GitHubStore) Write(ctx context.Context, path string, data []byte, opts WriteOptions) (string, error) {
	sha := opts.ExpectedRevision
	if sha == "" {
		current, err := s.Read(ctx, path)
		switch {
		case err == nil:
			sha = current.Revision
		case !errors.Is(err, ErrNotFound):
			return "", err
		}
	}

	fileOpts := &github.RepositoryContentFileOptions{
		Message: github.String(opts.Message),
		Content: data,
		Branch:  s.branchRef(),
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
		err  error
	)
	if sha == "" {
		res, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, fileOpts)
	} else {
		fileOpts.SHA = github.String(sha)
		res, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, fileOpts)
	}
	if err != nil {
		// A 404 with a SHA means the file went away since it was read; without
		// one it points at the repository, branch or token.
		if statusOf(resp) == http.StatusNotFound {
			if sha != "" {
				return "", fmt.Errorf("%w: write %s: %v", ErrRevisionMismatch, path, err)
			}
			return "", unavailable("write", path, err)
		}
		return "", classifyWriteError("write", path, resp, err)
	}
	return res.GetContent().GetSHA(), nil
}

func (s *GitHubStore) Delete(ctx context.Context, path string, message string) error {
	current, err := s.Read(ctx, path)
	if err != nil {
		return err
	}

	fileOpts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		SHA:     github.String(current.Revision),
		Branch:  s.branchRef(),
	}
	if _, resp, err := s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, path, fileOpts); err != nil {
		return classifyWriteError("delete", path, resp, err)
	}
	return nil
}

func classifyWriteError(op, path string, resp *github.Response, err error) error {
	switch statusOf(resp) {
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s %s: %v", ErrRevisionMismatch, op, path, err)
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return unavailable(op, path, err)
	}
}

func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
