// Package github implements the reviewer-writer port using the go-github
// library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewerWriter = (*Writer)(nil)

const (
	maxRetryAttempts  = 4
	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 8 * time.Second
)

// Writer implements the driven.ReviewerWriter port against the GitHub
// review-request API. Projects are "owner/repo" full names and change
// numbers are pull request numbers.
type Writer struct {
	gh *gh.Client
}

// NewWriter creates a Writer with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewWriter(token string) *Writer {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Writer{gh: client}
}

// NewWriterWithHTTPClient creates a Writer with a custom http.Client and
// base URL. Intended for tests injecting an httptest server.
func NewWriterWithHTTPClient(httpClient *http.Client, baseURL string) (*Writer, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	// go-github requires a trailing slash on the base URL.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	return &Writer{gh: client}, nil
}

// RequestReviewers asks GitHub to request a review from each account, by
// username, on the given pull request. Transient failures are retried with
// exponential backoff; a 422 (reviewer cannot be requested, e.g. is the PR
// author) is permanent and not retried.
func (w *Writer) RequestReviewers(ctx context.Context, project string, changeNumber int, reviewers []model.Account) error {
	owner, repo, err := splitProject(project)
	if err != nil {
		return err
	}

	logins := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		logins = append(logins, r.Username)
	}

	err = retry.Do(
		func() error {
			_, resp, err := w.gh.PullRequests.RequestReviewers(ctx, owner, repo, changeNumber,
				gh.ReviewersRequest{Reviewers: logins})
			if err != nil {
				if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
					return retry.Unrecoverable(fmt.Errorf("reviewers rejected: %w", err))
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxRetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(initialRetryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying reviewer request",
				"project", project,
				"change", changeNumber,
				"attempt", n+1,
				"error", err,
			)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("requesting reviewers on %s#%d: %w", project, changeNumber, err)
	}

	slog.Debug("reviewer request accepted",
		"project", project,
		"change", changeNumber,
		"reviewers", logins,
	)
	return nil
}

// splitProject splits an "owner/repo" project name into its components.
func splitProject(project string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(project, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid project name %q, want owner/repo", project)
	}
	return owner, repo, nil
}
