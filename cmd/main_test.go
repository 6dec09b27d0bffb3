package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:02,000
Hello there

2
00:00:03,000 --> 00:00:04,000
Goodbye
`

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func workspaceArgs(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "input")
	require.NoError(t, os.MkdirAll(input, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(input, "movie.srt"), []byte(sampleSRT), 0o644))

	return dir, []string{
		"--env-file", writeEnv(t, dir),
		"--backend", "echo",
		"--input", input,
		"--output", filepath.Join(dir, "output"),
		"--temp", filepath.Join(dir, "temp"),
		"--db", filepath.Join(dir, "state", "subbatch.db"),
	}
}

func writeEnv(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("# empty\n"), 0o644))
	return path
}

func TestRunCommand_EchoBackend(t *testing.T) {
	dir, args := workspaceArgs(t)

	out, err := executeCommand(t, append([]string{"run"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "movie.srt")
	assert.Contains(t, out, "1 succeeded, 0 failed")

	translated, err := os.ReadFile(filepath.Join(dir, "output", "movie.srt-pt.srt"))
	require.NoError(t, err)
	assert.Contains(t, string(translated), "Hello there")
	assert.Contains(t, string(translated), "00:00:03,000 --> 00:00:04,000")
	assert.NoDirExists(t, filepath.Join(dir, "temp"))

	out, err = executeCommand(t, append([]string{"history"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "en -> pt")
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	_, args := workspaceArgs(t)

	_, err := executeCommand(t, append([]string{"run", "--limit", "0"}, args...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length_limit")
}

func TestRunCommand_MissingInput(t *testing.T) {
	dir, args := workspaceArgs(t)

	_, err := executeCommand(t, append(append([]string{"run"}, args...), "--input", filepath.Join(dir, "nope"))...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Discovery")
}

func TestHistoryCommand_Empty(t *testing.T) {
	_, args := workspaceArgs(t)

	out, err := executeCommand(t, append([]string{"history"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rendered := renderTable(&buf,
		[]string{"File", "Lines"},
		[][]string{{"a.srt", "12"}, {"b.srt"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	assert.Contains(t, rendered, "a.srt")
	assert.Contains(t, rendered, "12")
	assert.False(t, strings.ContainsRune(rendered, '╭'), "non-terminal output uses the plain style")
	assert.Empty(t, renderTable(&buf, nil, nil, nil))
}
