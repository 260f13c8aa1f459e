package dispatcher

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/autopr/autopr/internal/gh"
)

// MockProvider is a testify mock of the Provider interface.
type MockProvider struct {
	mock.Mock
}

// CreatePR implements Provider.
func (m *MockProvider) CreatePR(ctx context.Context, spec gh.PRSpec) (*gh.PR, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gh.PR), args.Error(1)
}

// UpdatePR implements Provider.
func (m *MockProvider) UpdatePR(ctx context.Context, number int, spec gh.PRSpec) (*gh.PR, error) {
	args := m.Called(ctx, number, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gh.PR), args.Error(1)
}

// FindPR implements Provider.
func (m *MockProvider) FindPR(ctx context.Context, head, base string) (*gh.PR, error) {
	args := m.Called(ctx, head, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gh.PR), args.Error(1)
}

// AddAssignees implements Provider.
func (m *MockProvider) AddAssignees(ctx context.Context, number int, assignees []string) error {
	args := m.Called(ctx, number, assignees)
	return args.Error(0)
}

// AddLabels implements Provider.
func (m *MockProvider) AddLabels(ctx context.Context, number int, labels []string) error {
	args := m.Called(ctx, number, labels)
	return args.Error(0)
}
