package gh

import "time"

// PRSpec defines the parameters sent to the platform when creating or
// updating a pull request.
type PRSpec struct {
	Title string // PR title
	Body  string // PR description (markdown)
	Base  string // destination branch
	Head  string // source branch
}

// PR is the opaque handle to a pull request on the hosting platform.
type PR struct {
	Number    int       // PR number
	URL       string    // browser URL
	State     string    // "open", "closed", "merged"
	Title     string    // current title
	Head      string    // source branch
	Base      string    // destination branch
	Labels    []string  // label names
	CreatedAt time.Time // when PR was created
	UpdatedAt time.Time // when PR was last updated
}
