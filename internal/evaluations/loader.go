package evaluations

import (
	"context"
	"sync"

	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/pkg/logger"
	"github.com/DawnFalls/getSuitedV1/pkg/metrics"
)

// Fetcher is the transport dependency; satisfied by api.Client.
type Fetcher interface {
	ListEvaluations(ctx context.Context, email string) ([]models.Evaluation, error)
}

// Handle ties an in-flight fetch to the identity generation that triggered
// it. A response whose handle no longer matches the loader's generation is
// discarded, so a fetch started for a previous identity can never overwrite
// the collection of the current one.
type Handle struct {
	gen   uint64
	email string
}

// Result is the completion of one fetch, produced off the event loop and
// handed back to Apply.
type Result struct {
	Handle Handle
	Evals  []models.Evaluation
	Err    error
}

// Loader owns the evaluation collection for the current identity. Track
// decides whether a fetch should run, Fetch performs it, Apply reconciles
// the outcome. All three are safe to call from different goroutines.
type Loader struct {
	fetcher Fetcher

	mu       sync.Mutex
	gen      uint64
	email    string
	inFlight bool
	evals    []models.Evaluation
	lastErr  error
}

func NewLoader(f Fetcher) *Loader {
	return &Loader{fetcher: f}
}

// Track records an identity change and reports whether a fetch should run.
// A nil user or empty email clears the collection (signed out). A trigger
// while a fetch for the same email is already in flight is deduplicated.
func (l *Loader) Track(u *models.User) (Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.gen++
	if u == nil || u.Email == "" {
		l.email = ""
		l.evals = nil
		l.inFlight = false
		l.lastErr = nil
		return Handle{}, false
	}
	if l.inFlight && l.email == u.Email {
		// undo the bump so the fetch already in flight stays current and
		// its response is accepted; one fetch serves the whole burst
		l.gen--
		return Handle{}, false
	}
	l.email = u.Email
	l.inFlight = true
	return Handle{gen: l.gen, email: u.Email}, true
}

// Fetch runs the network read for a handle returned by Track. Blocking;
// callers run it off the event loop and pass the Result to Apply.
func (l *Loader) Fetch(ctx context.Context, h Handle) Result {
	evals, err := l.fetcher.ListEvaluations(ctx, h.email)
	return Result{Handle: h, Evals: evals, Err: err}
}

// Apply reconciles a fetch result into the collection. Stale results are
// dropped; failed fetches leave the previous collection untouched and are
// recorded for observability. Returns true when the collection changed.
func (l *Loader) Apply(res Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.Handle.gen != l.gen || res.Handle.email != l.email {
		metrics.EvaluationFetches.WithLabelValues("stale").Inc()
		logger.Debugf("evaluations: discarding stale fetch for %q", res.Handle.email)
		return false
	}
	l.inFlight = false
	if res.Err != nil {
		l.lastErr = res.Err
		metrics.EvaluationFetches.WithLabelValues("error").Inc()
		logger.Errorf("evaluations: fetch failed for %q: %v", res.Handle.email, res.Err)
		return false
	}
	l.lastErr = nil
	l.evals = res.Evals
	metrics.EvaluationFetches.WithLabelValues("ok").Inc()
	return true
}

// Evaluations returns the current collection in server order.
func (l *Loader) Evaluations() []models.Evaluation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evals
}

// LastError returns the most recent fetch failure, nil after a success or
// identity change.
func (l *Loader) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
