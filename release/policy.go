// Package release encodes the history of the arduino-cli release process.
//
// The upstream process changed twice: proto archives only exist for
// releases at or above 0.29.0, and release tags gained a "v" prefix with
// 0.35.0-rc.1. Both discontinuities are isolated here so the rest of the
// tool stays oblivious to them.
package release

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/dankeboy36/ardunno-cli-gen/locator"
)

// The two thresholds are historical facts, not tunables.
var (
	// protosPublishedSince is the first release that published a
	// downloadable proto archive. Older releases can only be served by a
	// source checkout at the matching tag.
	protosPublishedSince = semver.MustParse("0.29.0")

	// releaseTagPrefixedSince is the first release whose tag carries a "v"
	// prefix in the release-asset URL path. The archive filename kept the
	// bare numeric version throughout.
	releaseTagPrefixedSince = semver.MustParse("0.35.0-rc.1")
)

// DownloadBase is the canonical base URL the proto archives are published
// under.
const DownloadBase = "https://github.com/arduino/arduino-cli/releases/download"

// IndexURL is the human-facing list of arduino-cli releases.
const IndexURL = "https://github.com/arduino/arduino-cli/releases"

// UnsupportedVersionError reports a version that predates the proto
// archives and therefore has no artifact location.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("version %s predates %s, the first release with a downloadable proto archive",
		e.Version, protosPublishedSince)
}

// Classify decides which acquisition path serves the given version. At or
// above protosPublishedSince the release archive is downloaded directly;
// below it the version degrades to a source checkout of the canonical
// repository at the matching (unprefixed) tag.
func Classify(v locator.Version) locator.Locator {
	if v.Version.Compare(protosPublishedSince) < 0 {
		return locator.SourceRef{
			Owner:  locator.DefaultOwner,
			Repo:   locator.DefaultRepo,
			Commit: v.Version.String(),
		}
	}
	return v
}

// Artifact describes a single release's proto archive.
type Artifact struct {
	// Filename always uses the bare numeric version.
	Filename string
	// Tag is the release-tag segment of the download URL: the raw user
	// input (possibly v-prefixed) for releases at or above
	// releaseTagPrefixedSince, the bare numeric version before that.
	Tag string
}

// URL returns the canonical download URL of the artifact.
func (a Artifact) URL() string {
	return a.URLUnder(DownloadBase)
}

// URLUnder composes the download URL under an alternative base. Tests use
// it to point the acquirer at a local server.
func (a Artifact) URLUnder(base string) string {
	return fmt.Sprintf("%s/%s/%s", base, a.Tag, a.Filename)
}

// ArtifactLocation resolves where the proto archive of the given version
// lives. It must not be called for versions below protosPublishedSince;
// doing so is an *UnsupportedVersionError.
func ArtifactLocation(v locator.Version) (Artifact, error) {
	if v.Version == nil {
		return Artifact{}, fmt.Errorf("%q is not a valid semantic version", v.Raw)
	}
	if v.Version.Compare(protosPublishedSince) < 0 {
		return Artifact{}, &UnsupportedVersionError{Version: v.Version.String()}
	}

	tag := v.Version.String()
	if v.Version.Compare(releaseTagPrefixedSince) >= 0 {
		tag = v.Raw
	}
	return Artifact{
		Filename: fmt.Sprintf("%s_%s_proto.zip", locator.DefaultRepo, v.Version.String()),
		Tag:      tag,
	}, nil
}
