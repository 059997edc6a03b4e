// Package exitcodes contains the constants representing the possible
// ardunno-cli-gen exit error codes. Values should be between 0 and 125 so
// they survive the shell unmangled.
package exitcodes

// ExitCode is just a type representing a process exit code.
type ExitCode uint8

// list of exit codes used by ardunno-cli-gen
const (
	InvalidLocator       ExitCode = 101
	OutputExists         ExitCode = 102
	OutputCreationFailed ExitCode = 103
	AcquisitionFailed    ExitCode = 104
	DiscoveryFailed      ExitCode = 105
	GeneratorFailed      ExitCode = 106
)
