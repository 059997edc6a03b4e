package release

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dankeboy36/ardunno-cli-gen/locator"
)

func mustVersion(t *testing.T, raw string) locator.Version {
	t.Helper()
	v, ok := locator.ParseVersion(raw)
	require.True(t, ok, "expected %q to be a valid version", raw)
	return v
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("published releases stay releases", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"0.29.0", "0.30.0", "v0.29.1", "1.0.4"} {
			loc := Classify(mustVersion(t, raw))
			v, ok := loc.(locator.Version)
			require.Truef(t, ok, "expected %q to classify as a release", raw)
			assert.Equal(t, raw, v.Raw)
		}
	})

	t.Run("normalization strips the v prefix", func(t *testing.T) {
		t.Parallel()
		v := Classify(mustVersion(t, "v0.29.1")).(locator.Version)
		assert.Equal(t, "0.29.1", v.Version.String())
	})

	t.Run("old releases degrade to a tag checkout", func(t *testing.T) {
		t.Parallel()
		for raw, commit := range map[string]string{
			"0.28.0":      "0.28.0",
			"v0.28.0":     "0.28.0",
			"0.29.0-rc.1": "0.29.0-rc.1",
			"0.1.0":       "0.1.0",
		} {
			loc := Classify(mustVersion(t, raw))
			ref, ok := loc.(locator.SourceRef)
			require.Truef(t, ok, "expected %q to classify as a source ref", raw)
			assert.Equal(t, locator.SourceRef{Owner: "arduino", Repo: "arduino-cli", Commit: commit}, ref)
		}
	})
}

func TestArtifactLocation(t *testing.T) {
	t.Parallel()

	t.Run("unsupported below the archive threshold", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"0.28.0", "0.29.0-rc.1"} {
			_, err := ArtifactLocation(mustVersion(t, raw))
			require.Errorf(t, err, "expected %q to have no artifact", raw)
			var uerr *UnsupportedVersionError
			require.True(t, errors.As(err, &uerr))
		}
	})

	t.Run("unprefixed tag before the prefix threshold", func(t *testing.T) {
		t.Parallel()
		art, err := ArtifactLocation(mustVersion(t, "0.29.0"))
		require.NoError(t, err)
		assert.Equal(t, "arduino-cli_0.29.0_proto.zip", art.Filename)
		assert.Equal(t,
			"https://github.com/arduino/arduino-cli/releases/download/0.29.0/arduino-cli_0.29.0_proto.zip",
			art.URL())
	})

	t.Run("v-prefixed input is normalized before the prefix threshold", func(t *testing.T) {
		t.Parallel()
		art, err := ArtifactLocation(mustVersion(t, "v0.34.0"))
		require.NoError(t, err)
		assert.Equal(t, "0.34.0", art.Tag)
		assert.Equal(t, "arduino-cli_0.34.0_proto.zip", art.Filename)
	})

	t.Run("raw tag at the prefix threshold", func(t *testing.T) {
		t.Parallel()
		art, err := ArtifactLocation(mustVersion(t, "v0.35.0-rc.1"))
		require.NoError(t, err)
		assert.Equal(t, "v0.35.0-rc.1", art.Tag)
		// the filename sticks to the bare numeric version
		assert.Equal(t, "arduino-cli_0.35.0-rc.1_proto.zip", art.Filename)
		assert.Equal(t,
			"https://github.com/arduino/arduino-cli/releases/download/v0.35.0-rc.1/arduino-cli_0.35.0-rc.1_proto.zip",
			art.URL())
	})

	t.Run("URLUnder composes against another base", func(t *testing.T) {
		t.Parallel()
		art, err := ArtifactLocation(mustVersion(t, "1.0.4"))
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9999/1.0.4/arduino-cli_1.0.4_proto.zip",
			art.URLUnder("http://127.0.0.1:9999"))
	})
}
