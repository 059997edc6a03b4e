package errext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dankeboy36/ardunno-cli-gen/errext/exitcodes"
)

func TestWithHint(t *testing.T) {
	t.Parallel()
	assert.Nil(t, WithHint(nil, "hint"))

	err := errors.New("base error")
	hinted := WithHint(err, "do the thing")

	var herr HasHint
	require.True(t, errors.As(hinted, &herr))
	assert.Equal(t, "do the thing", herr.Hint())
	assert.Equal(t, "base error", hinted.Error())
	assert.True(t, errors.Is(hinted, err))
}

func TestWithHintChaining(t *testing.T) {
	t.Parallel()
	err := WithHint(WithHint(errors.New("base error"), "old hint"), "new hint")

	var herr HasHint
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, "new hint (old hint)", herr.Hint())
}

func TestWithExitCodeIfNone(t *testing.T) {
	t.Parallel()
	assert.Nil(t, WithExitCodeIfNone(nil, exitcodes.InvalidLocator))

	err := WithExitCodeIfNone(errors.New("base error"), exitcodes.InvalidLocator)
	var ecerr HasExitCode
	require.True(t, errors.As(err, &ecerr))
	assert.Equal(t, exitcodes.InvalidLocator, ecerr.ExitCode())

	// an already attached exit code wins
	err = WithExitCodeIfNone(err, exitcodes.GeneratorFailed)
	require.True(t, errors.As(err, &ecerr))
	assert.Equal(t, exitcodes.InvalidLocator, ecerr.ExitCode())
}

func TestFormat(t *testing.T) {
	t.Parallel()

	text, fields := Format(nil)
	assert.Empty(t, text)
	assert.Nil(t, fields)

	text, fields = Format(errors.New("base error"))
	assert.Equal(t, "base error", text)
	assert.Empty(t, fields)

	text, fields = Format(WithHint(errors.New("base error"), "a hint"))
	assert.Equal(t, "base error", text)
	assert.Equal(t, map[string]interface{}{"hint": "a hint"}, fields)
}
