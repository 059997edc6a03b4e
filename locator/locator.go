// Package locator parses the source argument of the generate command into
// one of its possible shapes: a released arduino-cli version or a git
// source reference. Inputs naming a local directory never reach this
// package; the caller checks the filesystem first and parses only when the
// local lookup found nothing.
package locator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Defaults for inputs that don't name a repository explicitly, e.g. bare
// versions that predate the proto release archives.
const (
	DefaultOwner  = "arduino"
	DefaultRepo   = "arduino-cli"
	DefaultCommit = "HEAD"
)

// Locator is the parsed, disambiguated form of the source argument.
// Exactly one concrete type implements each input shape.
type Locator interface {
	isLocator()
}

// Version is a syntactically valid release version. Raw preserves the
// user's exact input, including a leading "v" if there was one.
type Version struct {
	Version *semver.Version
	Raw     string
}

func (Version) isLocator() {}

func (v Version) String() string { return v.Raw }

// SourceRef identifies a git repository and the ref to check out.
type SourceRef struct {
	Owner  string
	Repo   string
	Commit string
}

func (SourceRef) isLocator() {}

func (r SourceRef) String() string {
	return fmt.Sprintf("%s/%s#%s", r.Owner, r.Repo, r.Commit)
}

// CloneURL returns the HTTPS clone URL of the referenced repository.
func (r SourceRef) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Repo)
}

// InvalidLocatorError is returned by Parse when the input matches none of
// the supported shapes.
type InvalidLocatorError struct {
	Input string
}

func (e *InvalidLocatorError) Error() string {
	return fmt.Sprintf(
		"invalid src input %q: must be a directory containing proto files, a semantic version, or an <owner>/<repo>[#commit] reference",
		e.Input)
}

// Owner allows [A-Za-z0-9-], the repo additionally allows [_.], and the
// optional #commit takes anything without whitespace. A trailing "#" with
// an empty commit does not match.
var sourceRefRe = regexp.MustCompile(`^([A-Za-z0-9-]+)/([A-Za-z0-9\-_.]+)(?:#(\S+))?$`)

// ParseVersion parses raw as a loose semantic version: a leading "v" is
// tolerated, anything else must be a full, strict semver string.
func ParseVersion(raw string) (Version, bool) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return Version{}, false
	}
	return Version{Version: v, Raw: raw}, true
}

// ParseSourceRef parses src as an <owner>/<repo>[#commit] reference. The
// commit defaults to DefaultCommit when the "#" part is omitted.
func ParseSourceRef(src string) (SourceRef, bool) {
	m := sourceRefRe.FindStringSubmatch(src)
	if m == nil {
		return SourceRef{}, false
	}
	ref := SourceRef{Owner: m[1], Repo: m[2], Commit: m[3]}
	if ref.Commit == "" {
		ref.Commit = DefaultCommit
	}
	return ref, true
}

// Parse turns the raw source input into a Locator. Versions are tried
// first, then source references; anything else is an *InvalidLocatorError.
func Parse(src string) (Locator, error) {
	if v, ok := ParseVersion(src); ok {
		return v, nil
	}
	if ref, ok := ParseSourceRef(src); ok {
		return ref, nil
	}
	return nil, &InvalidLocatorError{Input: src}
}
