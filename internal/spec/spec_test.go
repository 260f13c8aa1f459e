package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	s, err := New("master", "dev", "Pulling master into dev", ":crown: *An automated PR*",
		[]string{"steven-murray"}, []string{"auto-pr"})
	require.NoError(t, err)

	assert.Equal(t, "master", s.Source)
	assert.Equal(t, "dev", s.Destination)
	assert.Equal(t, "Pulling master into dev", s.Title)
	assert.Equal(t, ":crown: *An automated PR*", s.Body)
	assert.Equal(t, []string{"steven-murray"}, s.Assignees)
	assert.Equal(t, []string{"auto-pr"}, s.Labels)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
		title       string
		body        string
		wantErr     error
	}{
		{
			name:        "missing source",
			destination: "dev",
			title:       "t",
			wantErr:     ErrMissingSource,
		},
		{
			name:    "missing destination",
			source:  "master",
			title:   "t",
			wantErr: ErrMissingDestination,
		},
		{
			name:        "same branch",
			source:      "dev",
			destination: "dev",
			title:       "t",
			wantErr:     ErrSameBranch,
		},
		{
			name:        "body without title",
			source:      "master",
			destination: "dev",
			body:        "a body",
			wantErr:     ErrUntitledBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.source, tt.destination, tt.title, tt.body, nil, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_TitleWithoutBodyIsAllowed(t *testing.T) {
	s, err := New("master", "dev", "just a title", "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Body)
}

func TestNew_DedupesAssigneesAndLabels(t *testing.T) {
	s, err := New("master", "dev", "t", "",
		[]string{"alice", "bob", "alice", "", "bob"},
		[]string{"auto-pr", "auto-pr", "release"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, s.Assignees)
	assert.Equal(t, []string{"auto-pr", "release"}, s.Labels)
}

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, "master", s.Source)
	assert.Equal(t, "dev", s.Destination)
	assert.Equal(t, "Pulling master into dev", s.Title)
	assert.Equal(t, ":crown: *An automated PR*", s.Body)
	assert.Equal(t, []string{"steven-murray"}, s.Assignees)
	assert.Equal(t, []string{"auto-pr"}, s.Labels)
	assert.NoError(t, s.Validate())
}
