package interest

import (
	"context"

	"github.com/insulindose/interest-api/internal/domain"
)

// Repository defines the data access contract for submissions.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Insert persists one submission and returns its store-assigned id.
	// The submitted_at timestamp is assigned by the store at insert time.
	// Returns ErrDuplicate if the store enforces a uniqueness constraint
	// the caller did not anticipate.
	Insert(ctx context.Context, title *string, name, email, country string) (int64, error)

	// List returns the submissions matching the filter for the requested
	// page, plus the total count of matching rows ignoring pagination.
	List(ctx context.Context, f Filter) ([]domain.Submission, int, error)

	// DistinctCountries returns all non-empty country values currently in
	// the store, in ascending lexical order.
	DistinctCountries(ctx context.Context) ([]string, error)
}

// Filter controls search, sort, and pagination for submission listings.
// SortBy is validated against an allow-list by the repository; anything
// else falls back to submitted_at. SortOrder falls back to DESC unless it
// is exactly ASC (case-insensitive).
type Filter struct {
	Search    string // substring match over name OR email, case-insensitive
	Country   string // exact match
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// VerifyStatus is the outcome of a human-verification check.
type VerifyStatus int

const (
	// VerifySkipped means no check took place (no secret configured, or the
	// caller supplied no token). Skipped submissions proceed; this keeps
	// local and non-production use working without a challenge widget.
	VerifySkipped VerifyStatus = iota
	VerifyVerified
	VerifyRejected
)

// Verifier checks a human-verification token against an external service.
// Transport or parse failures are returned as errors, distinct from an
// explicit VerifyRejected outcome.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (VerifyStatus, error)
}

// Notifier delivers a best-effort notification for a recorded submission.
// Implementations must never be load-bearing: the pipeline logs and
// discards any error.
type Notifier interface {
	SubmissionReceived(ctx context.Context, sub domain.Submission) error
}
