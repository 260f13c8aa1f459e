package dispatcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/autopr/autopr/internal/gh"
	"github.com/autopr/autopr/internal/spec"
)

func TestDispatch_CreatesExactlyOnePR(t *testing.T) {
	provider := &MockProvider{}
	dispatcher := New(provider, nil)

	wantSpec := gh.PRSpec{
		Title: "Pulling master into dev",
		Body:  ":crown: *An automated PR*",
		Head:  "master",
		Base:  "dev",
	}
	pr := &gh.PR{Number: 42, URL: "https://github.com/steven-murray/hmf/pull/42", State: "open"}

	provider.On("CreatePR", mock.Anything, wantSpec).Return(pr, nil).Once()
	provider.On("AddAssignees", mock.Anything, 42, []string{"steven-murray"}).Return(nil).Once()
	provider.On("AddLabels", mock.Anything, 42, []string{"auto-pr"}).Return(nil).Once()

	result, err := dispatcher.Dispatch(context.Background(), spec.Default())
	require.NoError(t, err)

	assert.Equal(t, pr, result.PR)
	assert.True(t, result.Created)
	assert.Len(t, result.RunID, 16)
	provider.AssertExpectations(t)
}

func TestDispatch_InvalidSpecNeverReachesPlatform(t *testing.T) {
	provider := &MockProvider{}
	dispatcher := New(provider, nil)

	s := spec.MergeRequestSpec{Source: "dev", Destination: "dev", Title: "t"}
	_, err := dispatcher.Dispatch(context.Background(), s)

	assert.ErrorIs(t, err, spec.ErrSameBranch)
	provider.AssertNotCalled(t, "CreatePR", mock.Anything, mock.Anything)
}

func TestDispatch_ErrorsPropagate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "auth", err: gh.ErrAuth},
		{name: "branch not found", err: gh.ErrBranchNotFound},
		{name: "no diff", err: gh.ErrNoDiff},
		{name: "platform", err: gh.ErrPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProvider{}
			dispatcher := New(provider, nil)

			provider.On("CreatePR", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			_, err := dispatcher.Dispatch(context.Background(), spec.Default())
			assert.ErrorIs(t, err, tt.err)

			// A failed create never assigns or labels.
			provider.AssertNotCalled(t, "AddAssignees", mock.Anything, mock.Anything, mock.Anything)
			provider.AssertNotCalled(t, "AddLabels", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDispatch_ConvergesOnExistingPR(t *testing.T) {
	provider := &MockProvider{}
	dispatcher := New(provider, nil)

	existing := &gh.PR{Number: 7, State: "open"}
	updated := &gh.PR{Number: 7, State: "open", Title: "Pulling master into dev"}

	provider.On("CreatePR", mock.Anything, mock.Anything).Return(nil, gh.ErrAlreadyExists).Once()
	provider.On("FindPR", mock.Anything, "master", "dev").Return(existing, nil).Once()
	provider.On("UpdatePR", mock.Anything, 7, mock.Anything).Return(updated, nil).Once()
	provider.On("AddAssignees", mock.Anything, 7, []string{"steven-murray"}).Return(nil).Once()
	provider.On("AddLabels", mock.Anything, 7, []string{"auto-pr"}).Return(nil).Once()

	result, err := dispatcher.Dispatch(context.Background(), spec.Default())
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, 7, result.PR.Number)
	provider.AssertExpectations(t)
}

func TestDispatch_DuplicateReportedButMissing(t *testing.T) {
	provider := &MockProvider{}
	dispatcher := New(provider, nil)

	provider.On("CreatePR", mock.Anything, mock.Anything).Return(nil, gh.ErrAlreadyExists).Once()
	provider.On("FindPR", mock.Anything, "master", "dev").Return(nil, nil).Once()

	_, err := dispatcher.Dispatch(context.Background(), spec.Default())
	assert.ErrorIs(t, err, gh.ErrPlatform)
}

func TestDispatch_AssignFailureFailsDispatch(t *testing.T) {
	provider := &MockProvider{}
	dispatcher := New(provider, nil)

	pr := &gh.PR{Number: 9, State: "open"}
	provider.On("CreatePR", mock.Anything, mock.Anything).Return(pr, nil).Once()
	provider.On("AddAssignees", mock.Anything, 9, mock.Anything).Return(gh.ErrPlatform).Once()

	_, err := dispatcher.Dispatch(context.Background(), spec.Default())
	assert.ErrorIs(t, err, gh.ErrPlatform)
	provider.AssertNotCalled(t, "AddLabels", mock.Anything, mock.Anything, mock.Anything)
}
