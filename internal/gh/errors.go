package gh

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Dispatch error taxonomy. Callers match with errors.Is.
var (
	// ErrAuth means the credential was rejected or lacks the required scope.
	ErrAuth = errors.New("credential rejected by platform")

	// ErrBranchNotFound means the source or destination branch (or the
	// repository itself) does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrNoDiff means the source and destination branches are identical.
	ErrNoDiff = errors.New("no commits between source and destination")

	// ErrAlreadyExists means an open PR already exists for the branch pair.
	ErrAlreadyExists = errors.New("pull request already exists for branch pair")

	// ErrPlatform covers transient hosting-platform failures.
	ErrPlatform = errors.New("platform error")
)

// apiError is the GitHub error response body.
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// classifyError maps an HTTP failure response to the dispatch error taxonomy.
func classifyError(status int, body []byte) error {
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	detail := apiErr.Message
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuth, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrBranchNotFound, detail)
	case status == http.StatusUnprocessableEntity:
		return classifyValidationError(apiErr, detail)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d: %s", ErrPlatform, status, detail)
	default:
		return fmt.Errorf("%w: unexpected status %d: %s", ErrPlatform, status, detail)
	}
}

// classifyValidationError inspects a 422 response. GitHub reports "no
// commits", "already exists", and unknown head/base branches all under the
// same status code, distinguished only by the per-field error entries.
func classifyValidationError(apiErr apiError, detail string) error {
	for _, e := range apiErr.Errors {
		msg := e.Message
		switch {
		case strings.Contains(msg, "No commits between"):
			return fmt.Errorf("%w: %s", ErrNoDiff, msg)
		case strings.Contains(msg, "already exists"):
			return fmt.Errorf("%w: %s", ErrAlreadyExists, msg)
		case e.Field == "head" || e.Field == "base":
			if msg == "" {
				msg = fmt.Sprintf("%s branch is %s", e.Field, e.Code)
			}
			return fmt.Errorf("%w: %s", ErrBranchNotFound, msg)
		}
	}
	return fmt.Errorf("%w: validation failed: %s", ErrPlatform, detail)
}
