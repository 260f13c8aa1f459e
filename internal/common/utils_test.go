package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRunID(t *testing.T) {
	id := GenerateRunID()
	assert.Len(t, id, 16)
	assert.NotEqual(t, id, GenerateRunID())
}

func TestSplitRepoPath(t *testing.T) {
	owner, repo, err := SplitRepoPath("steven-murray/hmf")
	require.NoError(t, err)
	assert.Equal(t, "steven-murray", owner)
	assert.Equal(t, "hmf", repo)

	for _, path := range []string{"", "hmf", "a/b/c", "/hmf", "owner/"} {
		_, _, err := SplitRepoPath(path)
		assert.Error(t, err, "path %q", path)
	}
}
