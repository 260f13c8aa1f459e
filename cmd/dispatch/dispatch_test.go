package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/autopr/autopr/internal/config"
	"github.com/autopr/autopr/internal/dispatcher"
	"github.com/autopr/autopr/internal/gh"
)

func setPlatformEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_REPOSITORY", "steven-murray/hmf")
	t.Setenv("GITHUB_API_URL", apiURL)
}

func TestRun_EndToEnd(t *testing.T) {
	var createCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/repos/steven-murray/hmf/pulls":
			createCalls++
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Pulling master into dev", payload["title"])
			assert.Equal(t, ":crown: *An automated PR*", payload["body"])
			assert.Equal(t, "master", payload["head"])
			assert.Equal(t, "dev", payload["base"])

			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"number": 1, "html_url": "https://github.com/steven-murray/hmf/pull/1",
				"state": "open", "title": "Pulling master into dev"}`)
		case r.URL.Path == "/repos/steven-murray/hmf/issues/1/assignees":
			var payload map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, []string{"steven-murray"}, payload["assignees"])
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/repos/steven-murray/hmf/issues/1/labels":
			var payload map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, []string{"auto-pr"}, payload["labels"])
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	setPlatformEnv(t, server.URL)

	c := &Command{}
	err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, createCalls)
}

func TestRun_MissingCredential(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_REPOSITORY", "steven-murray/hmf")
	t.Setenv("GITHUB_API_URL", "")

	c := &Command{}
	err := c.Run(context.Background())
	assert.ErrorIs(t, err, gh.ErrAuth)
}

func TestRun_DryRunNeverCallsPlatform(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	setPlatformEnv(t, server.URL)

	c := &Command{DryRun: true}
	err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestRun_DispatchFailureFailsRun(t *testing.T) {
	setPlatformEnv(t, "")

	provider := &dispatcher.MockProvider{}
	provider.On("CreatePR", mock.Anything, mock.Anything).Return(nil, gh.ErrNoDiff).Once()

	c := &Command{Provider: provider}
	err := c.Run(context.Background())
	assert.ErrorIs(t, err, gh.ErrNoDiff)
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{
		Source:      "master",
		Destination: "dev",
		Title:       "Pulling master into dev",
		Body:        ":crown: *An automated PR*",
		Assignees:   []string{"steven-murray"},
		Labels:      []string{"auto-pr"},
	}

	c := &Command{
		Source:      "main",
		Destination: "develop",
		Title:       "Sync main into develop",
		Body:        "",
		Assignees:   []string{"alice"},
		Labels:      []string{"release"},
		titleSet:    true,
		bodySet:     true,
	}
	c.applyOverrides(cfg)

	assert.Equal(t, "main", cfg.Source)
	assert.Equal(t, "develop", cfg.Destination)
	assert.Equal(t, "Sync main into develop", cfg.Title)
	assert.Empty(t, cfg.Body)
	assert.Equal(t, []string{"alice"}, cfg.Assignees)
	assert.Equal(t, []string{"release"}, cfg.Labels)
}

func TestApplyOverrides_UnsetFlagsKeepConfig(t *testing.T) {
	cfg := &config.Config{
		Source:      "master",
		Destination: "dev",
		Title:       "Pulling master into dev",
		Body:        ":crown: *An automated PR*",
	}

	c := &Command{Title: "", Body: ""} // flags never set
	c.applyOverrides(cfg)

	assert.Equal(t, "master", cfg.Source)
	assert.Equal(t, "Pulling master into dev", cfg.Title)
	assert.Equal(t, ":crown: *An automated PR*", cfg.Body)
}
