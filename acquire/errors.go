package acquire

import (
	"fmt"

	"github.com/dankeboy36/ardunno-cli-gen/release"
)

// CloneError reports a failed `git clone`. The URL is part of the message
// so the user can tell an unreachable repository from a bad ref.
type CloneError struct {
	URL    string
	Output string
	err    error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("could not clone %s: %s", e.URL, gitDiagnostic(e.Output, e.err))
}

func (e *CloneError) Unwrap() error { return e.err }

// FetchError reports a failed `git fetch`.
type FetchError struct {
	Output string
	err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not fetch the remote refs: %s", gitDiagnostic(e.Output, e.err))
}

func (e *FetchError) Unwrap() error { return e.err }

// CheckoutError reports a failed `git checkout`, naming the commit and the
// repository so the diagnosis differs from a clone failure.
type CheckoutError struct {
	Owner  string
	Repo   string
	Commit string
	Output string
	err    error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("could not check out %q from %s/%s: %s",
		e.Commit, e.Owner, e.Repo, gitDiagnostic(e.Output, e.err))
}

func (e *CheckoutError) Unwrap() error { return e.err }

func gitDiagnostic(output string, err error) string {
	if output != "" {
		return output
	}
	return err.Error()
}

// NotFoundError reports that the upstream has no release for the requested
// version.
type NotFoundError struct {
	Version string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no release found for version %s", e.Version)
}

// Hint points the user at the list of versions that do exist.
func (e *NotFoundError) Hint() string {
	return "the available releases are listed at " + release.IndexURL
}

// MissingLocationError reports a release-asset response that should have
// redirected to the binary asset but carried no Location header.
type MissingLocationError struct {
	URL string
}

func (e *MissingLocationError) Error() string {
	return fmt.Sprintf("the response from %s did not carry a redirect location", e.URL)
}

// UnexpectedStatusError reports any other status code surprise during the
// two-hop release download.
type UnexpectedStatusError struct {
	URL      string
	Actual   int
	Expected int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d (expected %d) from %s", e.Actual, e.Expected, e.URL)
}
