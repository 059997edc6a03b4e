// Package acquire materializes a local directory of arduino-cli proto
// files from a non-local locator: either a git checkout of a source
// reference or a downloaded release archive. Every successful acquisition
// yields a Handle owning the temporary directory it lives in.
package acquire

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// protoSubdir is where arduino-cli keeps its schema files. Both a source
// checkout and an extracted release archive use this layout; it is a
// structural assumption about the upstream repository, not a setting.
const protoSubdir = "rpc"

// tempDirPattern is the os.MkdirTemp pattern for acquisition directories.
const tempDirPattern = "ardunno-cli-gen-*"

// Handle owns the temporary directory backing one acquisition. The caller
// that triggered the acquisition is responsible for calling Dispose once
// the proto files are no longer needed, on every exit path.
type Handle struct {
	// ProtoDir is the directory holding the acquired proto files.
	ProtoDir string

	root   string
	logger logrus.FieldLogger
}

func newHandle(logger logrus.FieldLogger) (*Handle, error) {
	root, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return nil, err
	}
	return &Handle{
		ProtoDir: filepath.Join(root, protoSubdir),
		root:     root,
		logger:   logger,
	}, nil
}

// Dispose removes the acquisition's temporary directory tree. It is safe
// to call repeatedly and after a partial removal. Failures are logged and
// never returned: Dispose runs on cleanup paths where a secondary error
// would shadow the primary one.
func (h *Handle) Dispose() {
	if h == nil || h.root == "" {
		return
	}
	if err := os.RemoveAll(h.root); err != nil {
		if h.logger != nil {
			h.logger.WithError(err).WithField("path", h.root).
				Warn("Could not remove the temporary directory")
		}
		return
	}
	if h.logger != nil {
		h.logger.WithField("path", h.root).Debug("Removed temporary directory")
	}
}
