package interest

import (
	"context"
	"fmt"

	"github.com/insulindose/interest-api/internal/domain"
	"github.com/insulindose/interest-api/internal/metrics"
	"github.com/insulindose/interest-api/internal/pkg/logger"
)

// Service orchestrates the submission pipeline: validate, verify, persist,
// notify. It also serves the admin listing query. All methods are safe for
// concurrent use if the underlying repository is.
type Service struct {
	repo     Repository
	verifier Verifier // nil disables verification entirely
	notifier Notifier // nil disables notification
	metrics  *metrics.Metrics
}

// NewService creates an interest service. verifier, notifier, and m may be
// nil; the corresponding step is skipped.
func NewService(repo Repository, verifier Verifier, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{repo: repo, verifier: verifier, notifier: notifier, metrics: m}
}

// Submit runs one submission through the pipeline and returns the recorded
// row. Validation and verification failures return sentinel errors before
// any store access. Notification failure never fails the submission: once
// the insert succeeds the row is durably recorded and the caller gets a
// success response regardless of notification outcome.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Submission, error) {
	if err := in.Validate(); err != nil {
		s.metrics.IncSubmission("invalid")
		return nil, err
	}

	if s.verifier != nil {
		status, err := s.verifier.Verify(ctx, in.Token, in.RemoteIP)
		if err != nil {
			// Verification service unreachable or unparseable. This is a
			// server-side fault, not an explicit rejection, and surfaces
			// as a generic pipeline failure.
			s.metrics.IncSubmission("error")
			return nil, fmt.Errorf("verify submission: %w", err)
		}
		if status == VerifyRejected {
			s.metrics.IncSubmission("rejected")
			return nil, ErrVerificationRejected
		}
	}

	var title *string
	if in.Title != "" {
		title = &in.Title
	}

	id, err := s.repo.Insert(ctx, title, in.Name, in.Email, in.Country)
	if err != nil {
		if err == ErrDuplicate {
			s.metrics.IncSubmission("duplicate")
			return nil, err
		}
		s.metrics.IncSubmission("error")
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	sub := domain.Submission{
		ID:      id,
		Title:   title,
		Name:    in.Name,
		Email:   in.Email,
		Country: in.Country,
	}

	if s.notifier != nil {
		// Best effort only. The submission is already recorded; a failed
		// notification is logged and swallowed.
		if err := s.notifier.SubmissionReceived(ctx, sub); err != nil {
			logger.Warn("notification failed", "id", sub.ID, "error", err)
		}
	}

	s.metrics.IncSubmission("accepted")
	return &sub, nil
}

// ListResult is one page of submissions plus the metadata the admin view
// needs to build pagination and its country filter widget.
type ListResult struct {
	Submissions []domain.Submission
	Total       int
	Countries   []string
}

// List executes the admin listing query: one page of filtered rows, the
// total matching count, and the distinct-country filter vocabulary. The
// three store round trips carry no snapshot guarantee between them; under
// concurrent writes the counts may lag the page contents slightly, which is
// acceptable for an admin viewing tool.
func (s *Service) List(ctx context.Context, f Filter) (*ListResult, error) {
	subs, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	countries, err := s.repo.DistinctCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct countries: %w", err)
	}

	return &ListResult{Submissions: subs, Total: total, Countries: countries}, nil
}
