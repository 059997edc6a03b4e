package acquire

import (
	"context"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dankeboy36/ardunno-cli-gen/locator"
)

// SourceAcquirer materializes proto files by cloning a git repository and
// checking out the requested ref.
type SourceAcquirer struct {
	logger logrus.FieldLogger

	// runGit is swapped out by tests.
	runGit func(ctx context.Context, dir string, args ...string) (string, error)
}

// NewSourceAcquirer returns a SourceAcquirer shelling out to the git
// executable on the PATH.
func NewSourceAcquirer(logger logrus.FieldLogger) *SourceAcquirer {
	return &SourceAcquirer{
		logger: logger,
		runGit: runGitCommand,
	}
}

func runGitCommand(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Acquire performs a full clone of the referenced repository into a fresh
// temporary directory, fetches all remote refs and tags, and checks out
// the requested commit, branch or tag. The proto files then sit under the
// fixed rpc/ subpath of the checkout.
func (a *SourceAcquirer) Acquire(ctx context.Context, ref locator.SourceRef) (*Handle, error) {
	handle, err := newHandle(a.logger)
	if err != nil {
		return nil, err
	}

	url := ref.CloneURL()
	a.logger.WithField("url", url).Debug("Cloning repository")
	if out, err := a.runGit(ctx, handle.root, "clone", url, "."); err != nil {
		handle.Dispose()
		return nil, &CloneError{URL: url, Output: out, err: err}
	}

	a.logger.Debug("Fetching remote refs and tags")
	if out, err := a.runGit(ctx, handle.root, "fetch", "--all", "--tags"); err != nil {
		handle.Dispose()
		return nil, &FetchError{Output: out, err: err}
	}

	a.logger.WithField("commit", ref.Commit).Debug("Checking out")
	if out, err := a.runGit(ctx, handle.root, "checkout", ref.Commit); err != nil {
		handle.Dispose()
		return nil, &CheckoutError{
			Owner: ref.Owner, Repo: ref.Repo, Commit: ref.Commit,
			Output: out, err: err,
		}
	}

	return handle, nil
}
