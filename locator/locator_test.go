package locator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceRef(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected SourceRef
	}{
		{"arduino/arduino-cli", SourceRef{Owner: "arduino", Repo: "arduino-cli", Commit: "HEAD"}},
		{"arduino/arduino-cli#5a4ffe0", SourceRef{Owner: "arduino", Repo: "arduino-cli", Commit: "5a4ffe0"}},
		{"arduino/arduino-cli#main", SourceRef{Owner: "arduino", Repo: "arduino-cli", Commit: "main"}},
		{"dankeboy36/ardunno-cli", SourceRef{Owner: "dankeboy36", Repo: "ardunno-cli", Commit: "HEAD"}},
		{"owner/repo_with.dots#v1.0.0", SourceRef{Owner: "owner", Repo: "repo_with.dots", Commit: "v1.0.0"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			ref, ok := ParseSourceRef(tc.input)
			require.True(t, ok)
			assert.Equal(t, tc.expected, ref)
		})
	}
}

func TestParseSourceRefInvalid(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"",
		".owner/repo",
		"_owner/repo",
		"owner/re po",
		"owner/repo#",
		"/owner/repo",
		"owner/repo/",
		"owner/repo#one two",
		"owner",
		"owner/",
		"#",
		"owner /repo",
	}

	for _, input := range invalid {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, ok := ParseSourceRef(input)
			assert.False(t, ok)
		})
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input      string
		normalized string
	}{
		{"0.30.0", "0.30.0"},
		{"v0.29.1", "0.29.1"},
		{"0.35.0-rc.1", "0.35.0-rc.1"},
		{"v1.0.4", "1.0.4"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			v, ok := ParseVersion(tc.input)
			require.True(t, ok)
			assert.Equal(t, tc.normalized, v.Version.String())
			assert.Equal(t, tc.input, v.Raw)
		})
	}
}

func TestParseVersionInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "a", "0", "0.30", "0.30.", "0.30.0.", "version"} {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, ok := ParseVersion(input)
			assert.False(t, ok)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("version wins over source ref", func(t *testing.T) {
		t.Parallel()
		loc, err := Parse("v0.30.0")
		require.NoError(t, err)
		v, ok := loc.(Version)
		require.True(t, ok)
		assert.Equal(t, "0.30.0", v.Version.String())
	})

	t.Run("source ref", func(t *testing.T) {
		t.Parallel()
		loc, err := Parse("arduino/arduino-cli#5a4ffe0")
		require.NoError(t, err)
		ref, ok := loc.(SourceRef)
		require.True(t, ok)
		assert.Equal(t, SourceRef{Owner: "arduino", Repo: "arduino-cli", Commit: "5a4ffe0"}, ref)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("not a valid input!")
		require.Error(t, err)
		var invalidErr *InvalidLocatorError
		require.True(t, errors.As(err, &invalidErr))
		assert.Equal(t, "not a valid input!", invalidErr.Input)
		assert.Contains(t, err.Error(), "not a valid input!")
	})
}

func TestSourceRefCloneURL(t *testing.T) {
	t.Parallel()

	ref := SourceRef{Owner: "arduino", Repo: "arduino-cli", Commit: "HEAD"}
	assert.Equal(t, "https://github.com/arduino/arduino-cli.git", ref.CloneURL())
}
