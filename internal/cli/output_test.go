package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Error(t *testing.T) {
	e := NewExitError(ExitCommandError, "bad catalog")
	assert.Equal(t, "bad catalog", e.Error())

	wrapped := WrapExitError(ExitFailure, "compile failed", errors.New("boom"))
	assert.Equal(t, "compile failed: boom", wrapped.Error())
	assert.Equal(t, "boom", wrapped.Unwrap().Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))
	assert.Equal(t, ExitFailure, GetExitCode(nil))
}

func TestOutputFormatter_SuccessText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Success("SELECT 1"))
	assert.Equal(t, "SELECT 1\n", buf.String())
}

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success(map[string]string{"sql": "SELECT 1"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
}

func TestOutputFormatter_ErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Error("E009", "bad query", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E009", resp.Error.Code)
	assert.Equal(t, "bad query", resp.Error.Message)
	assert.NotEmpty(t, resp.TraceID)
}

func TestOutputFormatter_ErrorText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Error("E009", "bad query", nil))
	assert.Equal(t, "Error [E009]: bad query\n", buf.String())
}

func TestOutputFormatter_VerboseLogRespectsFlag(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: false}
	f.VerboseLog("loading %s", "catalog")
	assert.Empty(t, buf.String())

	f.Verbose = true
	f.VerboseLog("loading %s", "catalog")
	assert.Equal(t, "loading catalog\n", buf.String())
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}
	f.VerboseLog("diagnostic")
	assert.Empty(t, out.String())
	assert.Equal(t, "diagnostic\n", errOut.String())
}

func TestOutputFormatter_GetErrWriterFallsBackToWriter(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Writer: &buf}
	assert.Equal(t, &buf, f.GetErrWriter())
}
