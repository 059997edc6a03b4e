// Package consts houses some constants needed across ardunno-cli-gen
package consts

import (
	"fmt"
	"runtime"
)

// AppName is the name of the executable.
const AppName = "ardunno-cli-gen"

// Version contains the current semantic version of ardunno-cli-gen.
const Version = "0.1.0"

// VersionDetails can be set externally as part of the build process
var VersionDetails = "" //nolint:gochecknoglobals

// FullVersion returns the maximally full version and build information for
// the currently running executable.
func FullVersion() string {
	goVersionArch := fmt.Sprintf("%s, %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if VersionDetails != "" {
		return fmt.Sprintf("%s (%s, %s)", Version, VersionDetails, goVersionArch)
	}

	return fmt.Sprintf("%s (%s)", Version, goVersionArch)
}
