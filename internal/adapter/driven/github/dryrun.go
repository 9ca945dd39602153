package github

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewerWriter = (*DryRunWriter)(nil)

// DryRunWriter stands in for Writer when no token is configured: it logs the
// reviewer requests it would have made and succeeds. The rest of the
// pipeline, including assignment records, behaves as in production.
type DryRunWriter struct{}

// NewDryRunWriter creates a DryRunWriter.
func NewDryRunWriter() *DryRunWriter {
	return &DryRunWriter{}
}

// RequestReviewers logs the request and performs no side effect.
func (w *DryRunWriter) RequestReviewers(_ context.Context, project string, changeNumber int, reviewers []model.Account) error {
	logins := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		logins = append(logins, r.Username)
	}

	slog.Info("dry run: would request reviewers",
		"project", project,
		"change", changeNumber,
		"reviewers", logins,
	)
	return nil
}
