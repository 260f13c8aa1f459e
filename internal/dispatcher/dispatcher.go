package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/autopr/autopr/internal/common"
	"github.com/autopr/autopr/internal/gh"
	"github.com/autopr/autopr/internal/spec"
)

// Provider defines the PR-hosting capability the dispatcher needs. The
// concrete platform lives behind this interface so it can be swapped or
// mocked.
type Provider interface {
	CreatePR(ctx context.Context, spec gh.PRSpec) (*gh.PR, error)
	UpdatePR(ctx context.Context, number int, spec gh.PRSpec) (*gh.PR, error)
	FindPR(ctx context.Context, head, base string) (*gh.PR, error)
	AddAssignees(ctx context.Context, number int, assignees []string) error
	AddLabels(ctx context.Context, number int, labels []string) error
}

// Result is the outcome of a successful dispatch.
type Result struct {
	PR      *gh.PR
	Created bool   // false when an existing PR was updated instead
	RunID   string // identifier correlating the log lines of this run
}

// Dispatcher turns a MergeRequestSpec into exactly one pull request on the
// hosting platform.
type Dispatcher struct {
	provider Provider
	log      *zap.Logger
}

// New creates a dispatcher. A nil logger is replaced with a no-op.
func New(provider Provider, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{provider: provider, log: log}
}

// Dispatch requests creation of a PR from spec.Source into spec.Destination.
// If an open PR already exists for the branch pair, its title and body are
// updated instead; this also makes overlapping dispatches for the same pair
// converge on one PR. Any failure propagates to the caller unrecovered.
func (d *Dispatcher) Dispatch(ctx context.Context, s spec.MergeRequestSpec) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid merge request spec: %w", err)
	}

	runID := common.GenerateRunID()
	log := d.log.With(
		zap.String("run_id", runID),
		zap.String("source", s.Source),
		zap.String("destination", s.Destination),
	)
	log.Debug("dispatching merge PR")

	prSpec := gh.PRSpec{
		Title: s.Title,
		Body:  s.Body,
		Head:  s.Source,
		Base:  s.Destination,
	}

	pr, err := d.provider.CreatePR(ctx, prSpec)
	created := true
	if errors.Is(err, gh.ErrAlreadyExists) {
		log.Debug("PR already exists, updating instead")
		pr, err = d.syncExisting(ctx, prSpec)
		created = false
	}
	if err != nil {
		return nil, err
	}

	if err := d.provider.AddAssignees(ctx, pr.Number, s.Assignees); err != nil {
		return nil, err
	}
	if err := d.provider.AddLabels(ctx, pr.Number, s.Labels); err != nil {
		return nil, err
	}

	log.Info("merge PR dispatched",
		zap.Int("number", pr.Number),
		zap.String("url", pr.URL),
		zap.Bool("created", created),
	)

	return &Result{PR: pr, Created: created, RunID: runID}, nil
}

// syncExisting locates the open PR for the branch pair and brings its title
// and body in line with the spec.
func (d *Dispatcher) syncExisting(ctx context.Context, prSpec gh.PRSpec) (*gh.PR, error) {
	existing, err := d.provider.FindPR(ctx, prSpec.Head, prSpec.Base)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// The platform reported a duplicate but none is visible; treat it
		// as a transient platform inconsistency.
		return nil, fmt.Errorf("%w: duplicate PR reported but not found for %s..%s",
			gh.ErrPlatform, prSpec.Base, prSpec.Head)
	}

	return d.provider.UpdatePR(ctx, existing.Number, prSpec)
}
