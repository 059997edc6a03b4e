package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dankeboy36/ardunno-cli-gen/acquire"
	"github.com/dankeboy36/ardunno-cli-gen/discovery"
	"github.com/dankeboy36/ardunno-cli-gen/errext"
	"github.com/dankeboy36/ardunno-cli-gen/errext/exitcodes"
	"github.com/dankeboy36/ardunno-cli-gen/lib/fsext"
	"github.com/dankeboy36/ardunno-cli-gen/locator"
	"github.com/dankeboy36/ardunno-cli-gen/protoc"
	"github.com/dankeboy36/ardunno-cli-gen/release"
)

// cmdGenerate handles the `ardunno-cli-gen generate` sub-command.
type cmdGenerate struct {
	gs *globalState

	out   string
	force bool

	// acquisition and generation are behind function fields so the tests
	// can run the whole state machine without git, protoc or the network.
	acquireSource  func(ctx context.Context, ref locator.SourceRef) (*acquire.Handle, error)
	acquireRelease func(ctx context.Context, v locator.Version) (*acquire.Handle, error)
	runGenerator   func(ctx context.Context, protoPath, outDir string, files []string) error
}

func getCmdGenerate(gs *globalState) *cobra.Command {
	c := &cmdGenerate{
		gs:             gs,
		acquireSource:  acquire.NewSourceAcquirer(gs.logger).Acquire,
		acquireRelease: acquire.NewReleaseAcquirer(gs.logger).Acquire,
		runGenerator:   protoc.NewRunner(gs.logger).Run,
	}

	generateCmd := &cobra.Command{
		Use:   "generate <src>",
		Short: "Generate client bindings from the arduino-cli proto files",
		Long: `Generate client bindings from the arduino-cli proto files.

The src argument is either a local folder containing proto files, a released
arduino-cli version (for example 0.29.0 or v1.0.4), or an <owner>/<repo>
GitHub reference with an optional #commit.`,
		Example: `  # Generate from a local arduino-cli checkout
  ardunno-cli-gen generate ./arduino-cli/rpc --out src-gen

  # Generate from the 1.0.4 release
  ardunno-cli-gen generate 1.0.4 --out src-gen

  # Generate from a fork at a specific commit
  ardunno-cli-gen generate arduino/arduino-cli#5a4ffe0 --out src-gen --force`,
		Args: exactArgsWithMsg(1,
			"src must be a local path, a semantic version, or an <owner>/<repo>[#commit] reference"),
		RunE: c.run,
	}

	flags := generateCmd.Flags()
	flags.SortFlags = false
	flags.StringVarP(&c.out, "out", "o", "", "output directory for the generated files")
	flags.BoolVarP(&c.force, "force", "f", false, "overwrite the output directory if it already exists")
	must(generateCmd.MarkFlagRequired("out"))

	return generateCmd
}

func (c *cmdGenerate) run(_ *cobra.Command, args []string) error {
	gs := c.gs

	pwd, err := gs.getwd()
	if err != nil {
		return err
	}
	src := resolvePath(pwd, args[0])
	out := resolvePath(pwd, c.out)

	// The output check and the local proto lookup read disjoint paths and
	// neither affects the other's outcome, but both gate every decision
	// below.
	var (
		outExists   bool
		localProtos []string
	)
	var group errgroup.Group
	group.Go(func() error {
		var gerr error
		outExists, gerr = fsext.Exists(gs.fs, out)
		return gerr
	})
	group.Go(func() error {
		files, gerr := discovery.FindProtoFiles(gs.fs, src)
		if gerr != nil {
			if errors.Is(gerr, discovery.ErrNotDirectory) {
				return nil
			}
			return gerr
		}
		localProtos = files
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	if outExists && !c.force {
		return errext.WithExitCodeIfNone(
			errext.WithHint(
				fmt.Errorf("%s already exists", out),
				"use the `--force` flag to overwrite it"),
			exitcodes.OutputExists)
	}
	if !outExists {
		if err := gs.fs.MkdirAll(out, 0o755); err != nil {
			return errext.WithExitCodeIfNone(
				fmt.Errorf("could not create the output directory %s: %w", out, err),
				exitcodes.OutputCreationFailed)
		}
	}

	// A src directory with proto files always wins over the remote
	// interpretations of the same string.
	if len(localProtos) > 0 {
		gs.logger.WithFields(logrus.Fields{"dir": src, "files": len(localProtos)}).
			Debug("Using local proto files")
		return c.invoke(src, out, localProtos)
	}

	loc, err := locator.Parse(args[0])
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidLocator)
	}
	if v, ok := loc.(locator.Version); ok {
		loc = release.Classify(v)
	}

	var handle *acquire.Handle
	switch l := loc.(type) {
	case locator.Version:
		gs.logger.WithField("version", l.Raw).Debug("Acquiring the release proto archive")
		handle, err = c.acquireRelease(gs.ctx, l)
	case locator.SourceRef:
		gs.logger.WithField("ref", l.String()).Debug("Acquiring a source checkout")
		handle, err = c.acquireSource(gs.ctx, l)
	}
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.AcquisitionFailed)
	}
	defer handle.Dispose()

	files, err := discovery.FindProtoFiles(gs.fs, handle.ProtoDir)
	if err != nil && !errors.Is(err, discovery.ErrNotDirectory) {
		return err
	}
	if len(files) == 0 {
		return errext.WithExitCodeIfNone(
			fmt.Errorf("no proto files found under %s", handle.ProtoDir),
			exitcodes.DiscoveryFailed)
	}

	return c.invoke(handle.ProtoDir, out, files)
}

func (c *cmdGenerate) invoke(protoPath, out string, files []string) error {
	if err := c.runGenerator(c.gs.ctx, protoPath, out, files); err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.GeneratorFailed)
	}
	c.gs.logger.WithFields(logrus.Fields{"files": len(files), "out": out}).
		Info("Generated client bindings")
	return nil
}

func resolvePath(pwd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(pwd, path)
}
