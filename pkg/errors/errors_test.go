package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndFields(t *testing.T) {
	err := secerr.New(secerr.CodeRulesCompileInvalid, "bad rule", secerr.FieldPath("secret_patterns.txt"), secerr.Field("line", 3))
	require.Error(t, err)
	assert.Equal(t, secerr.CodeRulesCompileInvalid, secerr.CodeOf(err))
	assert.True(t, secerr.HasCode(err, secerr.CodeRulesCompileInvalid))
	assert.Contains(t, err.Error(), "bad rule")

	fields := secerr.FieldsOf(err)
	assert.Equal(t, "secret_patterns.txt", fields["path"])
	assert.Equal(t, 3, fields["line"])
}

func TestErrorfFormats(t *testing.T) {
	err := secerr.Errorf(secerr.CodeCLIInputInvalid, "unknown preset %q", "galaxy")
	assert.Equal(t, secerr.CodeCLIInputInvalid, secerr.CodeOf(err))
	assert.Contains(t, err.Error(), `unknown preset "galaxy"`)
	assert.True(t, secerr.IsInvalidInput(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := secerr.Wrap(cause, secerr.CodeManifestWriteFailure, "write manifest")
	require.Error(t, err)
	assert.True(t, secerr.Is(err, cause))
	assert.Equal(t, secerr.CodeManifestWriteFailure, secerr.CodeOf(err))

	assert.NoError(t, secerr.Wrap(nil, secerr.CodeManifestWriteFailure, "noop"))
	assert.NoError(t, secerr.Wrapf(nil, secerr.CodeManifestWriteFailure, "noop %d", 1))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, secerr.Code(""), secerr.CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, secerr.Code(""), secerr.CodeOf(nil))
	assert.False(t, secerr.HasCode(nil, secerr.CodeCLIInputMissing))
	assert.Nil(t, secerr.FieldsOf(fmt.Errorf("plain")))
}

func TestIsInvalidInputByReason(t *testing.T) {
	assert.True(t, secerr.IsInvalidInput(secerr.New(secerr.CodeCLIInputMissing, "no input")))
	assert.True(t, secerr.IsInvalidInput(secerr.New(secerr.CodeConfigParseInvalid, "bad yaml")))
	assert.False(t, secerr.IsInvalidInput(secerr.New(secerr.CodeReportWriteFailure, "io")))
}
