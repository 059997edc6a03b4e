// Package protoc builds and runs the protoc invocation for the one
// supported plugin configuration.
package protoc

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	generatorBinary = "protoc"
	pluginName      = "ts_proto"
	pluginBinary    = "protoc-gen-ts_proto"
)

// pluginOptions is the fixed generator configuration: nice-grpc service
// stubs with generic service definitions, oneofs as tagged unions,
// explicit field presence and source-relative import paths. They are
// serialized into a single comma-joined option argument.
var pluginOptions = []string{ //nolint:gochecknoglobals
	"outputServices=nice-grpc",
	"outputServices=generic-definitions",
	"oneof=unions",
	"useOptionals=none",
	"paths=source_relative",
	"esModuleInterop=true",
}

// Invocation holds everything that varies between two protoc runs.
type Invocation struct {
	PluginPath string
	ProtoPath  string
	OutDir     string
	Files      []string
}

// Args returns the full protoc argument vector for the invocation.
func (inv Invocation) Args() []string {
	args := []string{
		"--plugin=" + inv.PluginPath,
		"--proto_path=" + inv.ProtoPath,
		fmt.Sprintf("--%s_opt=%s", pluginName, strings.Join(pluginOptions, ",")),
		fmt.Sprintf("--%s_out=%s", pluginName, inv.OutDir),
	}
	return append(args, inv.Files...)
}

// GeneratorError reports that protoc could not be spawned or exited
// non-zero.
type GeneratorError struct {
	Output string
	err    error
}

func (e *GeneratorError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("the generator failed: %v: %s", e.err, e.Output)
	}
	return fmt.Sprintf("the generator failed: %v", e.err)
}

func (e *GeneratorError) Unwrap() error { return e.err }

// Runner invokes the external protoc process.
type Runner struct {
	logger logrus.FieldLogger

	// seams for tests
	lookPath   func(file string) (string, error)
	runCommand func(ctx context.Context, name string, args ...string) (string, error)
}

// NewRunner returns a Runner resolving both protoc and the plugin from the
// PATH.
func NewRunner(logger logrus.FieldLogger) *Runner {
	return &Runner{
		logger:     logger,
		lookPath:   exec.LookPath,
		runCommand: runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Run generates client bindings for the given proto files into outDir.
// The files are interpreted relative to protoPath.
func (r *Runner) Run(ctx context.Context, protoPath, outDir string, files []string) error {
	pluginPath, err := r.lookPath(pluginBinary)
	if err != nil {
		return &GeneratorError{err: fmt.Errorf("could not find %s: %w", pluginBinary, err)}
	}

	inv := Invocation{
		PluginPath: pluginPath,
		ProtoPath:  protoPath,
		OutDir:     outDir,
		Files:      files,
	}
	args := inv.Args()
	r.logger.WithField("args", strings.Join(args, " ")).Debug("Invoking the generator")

	if out, err := r.runCommand(ctx, generatorBinary, args...); err != nil {
		return &GeneratorError{Output: out, err: err}
	}
	return nil
}
