package discovery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dankeboy36/ardunno-cli-gen/lib/fsext"
)

func TestFindProtoFiles(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	for _, file := range []string{
		"/protos/cc/arduino/cli/commands/v1/commands.proto",
		"/protos/google/rpc/status.proto",
		"/protos/toplevel.proto",
	} {
		require.NoError(t, fsext.WriteFile(fs, file, []byte(`syntax = "proto3";`), 0o644))
	}
	require.NoError(t, fsext.WriteFile(fs, "/protos/README.md", []byte("docs"), 0o644))

	files, err := FindProtoFiles(fs, "/protos")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join("cc", "arduino", "cli", "commands", "v1", "commands.proto"),
		filepath.Join("google", "rpc", "status.proto"),
		"toplevel.proto",
	}, files)
}

func TestFindProtoFilesEmptyDirectory(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty", 0o755))

	files, err := FindProtoFiles(fs, "/empty")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestFindProtoFilesNotADirectory(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	require.NoError(t, fsext.WriteFile(fs, "/some/file.proto", []byte(`syntax = "proto3";`), 0o644))

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := FindProtoFiles(fs, "/does-not-exist")
		assert.ErrorIs(t, err, ErrNotDirectory)
	})

	t.Run("plain file", func(t *testing.T) {
		t.Parallel()
		_, err := FindProtoFiles(fs, "/some/file.proto")
		assert.ErrorIs(t, err, ErrNotDirectory)
	})
}
