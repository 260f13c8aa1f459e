package spec

import (
	"errors"
	"fmt"
)

// Defaults for the automated merge PR. They mirror the workflow this tool
// replaces and apply whenever configuration omits a field.
const (
	DefaultSource      = "master"
	DefaultDestination = "dev"
	DefaultTitle       = "Pulling master into dev"
	DefaultBody        = ":crown: *An automated PR*"
)

// DefaultAssignees and DefaultLabels complete the built-in spec template.
var (
	DefaultAssignees = []string{"steven-murray"}
	DefaultLabels    = []string{"auto-pr"}
)

var (
	ErrMissingSource      = errors.New("source branch is required")
	ErrMissingDestination = errors.New("destination branch is required")
	ErrSameBranch         = errors.New("source and destination branches must differ")
	ErrUntitledBody       = errors.New("title is required when a body is set")
)

// MergeRequestSpec describes a single merge PR to dispatch. It is built once
// per trigger event and never modified afterwards.
type MergeRequestSpec struct {
	Source      string   // branch to merge from
	Destination string   // branch to merge into
	Title       string
	Body        string   // markdown
	Assignees   []string // set semantics, order preserved
	Labels      []string // set semantics, order preserved
}

// New builds a validated MergeRequestSpec. Assignees and labels are
// deduplicated preserving first occurrence.
func New(source, destination, title, body string, assignees, labels []string) (MergeRequestSpec, error) {
	s := MergeRequestSpec{
		Source:      source,
		Destination: destination,
		Title:       title,
		Body:        body,
		Assignees:   dedupe(assignees),
		Labels:      dedupe(labels),
	}
	if err := s.Validate(); err != nil {
		return MergeRequestSpec{}, err
	}
	return s, nil
}

// Default returns the built-in spec template.
func Default() MergeRequestSpec {
	s, err := New(
		DefaultSource,
		DefaultDestination,
		DefaultTitle,
		DefaultBody,
		DefaultAssignees,
		DefaultLabels,
	)
	if err != nil {
		// The built-in constants always validate.
		panic(fmt.Sprintf("invalid default spec: %v", err))
	}
	return s
}

// Validate checks the spec invariants: both branches set and distinct, and a
// non-empty title whenever a body is supplied.
func (s MergeRequestSpec) Validate() error {
	if s.Source == "" {
		return ErrMissingSource
	}
	if s.Destination == "" {
		return ErrMissingDestination
	}
	if s.Source == s.Destination {
		return fmt.Errorf("%w: %q", ErrSameBranch, s.Source)
	}
	if s.Body != "" && s.Title == "" {
		return ErrUntitledBody
	}
	return nil
}

// dedupe removes duplicates from a list while preserving order. Empty entries
// are dropped as well.
func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
