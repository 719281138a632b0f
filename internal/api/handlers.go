package api

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/insulindose/interest-api/internal/domain"
	"github.com/insulindose/interest-api/internal/metrics"
	"github.com/insulindose/interest-api/internal/pkg/httputil"
	"github.com/insulindose/interest-api/internal/service/interest"
)

// Response strings the public site depends on. Kept stable: the form's
// client-side handling matches on them.
const (
	msgThankYou  = "Thank you for your interest. We'll be in touch."
	msgDuplicate = "This email address has already been registered. " +
		"If you need to update your information, please contact us at " +
		"support@insulindosescalculator.com"
	msgSubmitFailed = "An error occurred while processing your submission. Please try again later."
	msgListFailed   = "An error occurred while fetching submissions."
)

// Handlers holds the HTTP handlers for the intake and admin endpoints.
type Handlers struct {
	svc     *interest.Service
	metrics *metrics.Metrics
	// includeDetails echoes internal error text in 500 bodies. Never set
	// in production.
	includeDetails bool
}

// NewHandlers creates the handler set.
func NewHandlers(svc *interest.Service, m *metrics.Metrics, includeDetails bool) *Handlers {
	return &Handlers{svc: svc, metrics: m, includeDetails: includeDetails}
}

// submitResponse is the success body for the submit endpoint.
type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// HandleSubmit accepts one expression-of-interest submission.
//
//	POST /api/interest
func (h *Handlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in interest.SubmitInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	in.RemoteIP = clientIP(r)

	sub, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, interest.ErrMissingFields):
			httputil.BadRequest(w, "Missing required fields: name, email, and country are required")
		case errors.Is(err, interest.ErrInvalidEmail):
			httputil.BadRequest(w, "Invalid email format")
		case errors.Is(err, interest.ErrVerificationRejected):
			httputil.BadRequest(w, "Turnstile verification failed")
		case errors.Is(err, interest.ErrDuplicate):
			httputil.Conflict(w, msgDuplicate)
		default:
			httputil.InternalError(w, msgSubmitFailed, err, h.includeDetails)
		}
		return
	}

	httputil.OK(w, submitResponse{Success: true, Message: msgThankYou, ID: sub.ID})
}

// listResponse is the admin listing body.
type listResponse struct {
	Success    bool                `json:"success"`
	Data       []domain.Submission `json:"data"`
	Pagination PaginationMeta      `json:"pagination"`
	Filters    listFilters         `json:"filters"`
}

type listFilters struct {
	Countries []string `json:"countries"`
}

// HandleAdminList serves the paginated, filterable admin listing.
//
//	GET /api/admin/interest?page=&limit=&search=&country=&sortBy=&sortOrder=
func (h *Handlers) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	p := ParsePagination(r)

	res, err := h.svc.List(r.Context(), interest.Filter{
		Search:    q.Get("search"),
		Country:   q.Get("country"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		httputil.InternalError(w, msgListFailed, err, h.includeDetails)
		return
	}
	h.metrics.ObserveAdminQuery(time.Since(start))

	data := res.Submissions
	if data == nil {
		data = []domain.Submission{}
	}
	countries := res.Countries
	if countries == nil {
		countries = []string{}
	}

	httputil.OK(w, listResponse{
		Success:    true,
		Data:       data,
		Pagination: p.Meta(res.Total),
		Filters:    listFilters{Countries: countries},
	})
}

// clientIP returns the caller address for the verification call. The
// RealIP middleware has already folded X-Forwarded-For / X-Real-IP into
// RemoteAddr; strip the port if present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
