package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"extsort/internal/config"
	"extsort/internal/errors"
	"extsort/pkg/testutils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = "/cfg/config.json"

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testConfig, []byte(testutils.DefaultRulesJSON), 0644))
	testutils.CreateTestFilesWithDefault(t, fs, "/inbox")
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	prev := appFs
	appFs = fs
	t.Cleanup(func() { appFs = prev })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", testConfig}, args...))
	err := root.Execute()
	return testutils.StripANSI(out.String()), err
}

func exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

func TestOrganizeCommand(t *testing.T) {
	fs := newTestFs(t)

	out, err := execute(t, fs, "organize", "/inbox")
	require.NoError(t, err)

	assert.True(t, exists(fs, "/inbox/Images/a.jpg"))
	assert.True(t, exists(fs, "/inbox/Docs/b.txt"))
	assert.True(t, exists(fs, "/inbox/c.pdf"))
	assert.Contains(t, out, "Processed: 4")
	assert.Contains(t, out, "Moved: 2")
	assert.Contains(t, out, "Skipped: 2")
	assert.Contains(t, out, "Success: Files were organized successfully.")
}

func TestOrganizeCommandDryRun(t *testing.T) {
	fs := newTestFs(t)

	out, err := execute(t, fs, "organize", "--dry-run", "/inbox")
	require.NoError(t, err)

	assert.True(t, exists(fs, "/inbox/a.jpg"))
	assert.False(t, exists(fs, "/inbox/Images"))
	assert.Contains(t, out, "Would move: 2")
	assert.Contains(t, out, "Dry run complete. No files were moved.")
}

func TestOrganizeCommandVerbose(t *testing.T) {
	fs := newTestFs(t)

	out, err := execute(t, fs, "organize", "-v", "/inbox")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved a.jpg -> Images")
	assert.Contains(t, out, "no matching rule")
}

func TestOrganizeCommandErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		out, err := execute(t, newTestFs(t), "organize", "/nowhere")
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryUnavailable(err))
		assert.Contains(t, out, "Please choose a valid directory.")
	})

	t.Run("malformed configuration", func(t *testing.T) {
		fs := newTestFs(t)
		require.NoError(t, afero.WriteFile(fs, testConfig, []byte(`{"rules": [`), 0644))

		out, err := execute(t, fs, "organize", "/inbox")
		require.Error(t, err)
		assert.True(t, errors.IsConfigMalformed(err))
		assert.Contains(t, out, "invalid syntax")
		assert.True(t, exists(fs, "/inbox/a.jpg"))
	})

	t.Run("move failure sets exit status", func(t *testing.T) {
		fs := newTestFs(t)
		require.NoError(t, afero.WriteFile(fs, "/inbox/Images/a.jpg", []byte("taken"), 0644))

		out, err := execute(t, fs, "organize", "/inbox")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 4 files could not be moved")
		assert.Contains(t, out, "Error moving a.jpg")
	})
}

func TestAnalyzeCommand(t *testing.T) {
	fs := newTestFs(t)

	out, err := execute(t, fs, "analyze", "/inbox")
	require.NoError(t, err)
	assert.Contains(t, out, ".jpg")
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "2 of 4 files match a rule")
	assert.True(t, exists(fs, "/inbox/a.jpg"), "analyze never moves files")
}

func TestAnalyzeWithoutConfig(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, fs.Remove(testConfig))

	out, err := execute(t, fs, "analyze", "/inbox")
	require.NoError(t, err)
	assert.Contains(t, out, "run 'extsort init'")
	assert.Contains(t, out, "0 of 4 files match a rule")
}

func TestInitCommand(t *testing.T) {
	fs := afero.NewMemMapFs()

	out, err := execute(t, fs, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration file")
	assert.Contains(t, out, "Configuration ready: "+testConfig)

	rules, err := config.Load(fs, testConfig)
	require.NoError(t, err)
	assert.Empty(t, rules)

	out, err = execute(t, fs, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Using configuration")
}

func TestRulesCommands(t *testing.T) {
	fs := newTestFs(t)

	out, err := execute(t, fs, "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, ".jpg, .png")

	out, err = execute(t, fs, "rules", "add", "--folder", "Archives", "zip", ".TAR")
	require.NoError(t, err)
	assert.Contains(t, out, "Rule added: .zip, .tar -> Archives")

	rules, err := config.Load(fs, testConfig)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "Archives", rules[2].FolderName)
	assert.Equal(t, []string{".zip", ".tar"}, rules[2].Extensions)

	_, err = execute(t, fs, "rules", "remove", "0")
	require.NoError(t, err)
	rules, err = config.Load(fs, testConfig)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Docs", rules[0].FolderName)

	out, err = execute(t, fs, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "Archives")
}

func TestRulesCommandErrors(t *testing.T) {
	fs := newTestFs(t)

	_, err := execute(t, fs, "rules", "add", "--folder", "../up", ".jpg")
	assert.ErrorContains(t, err, "path separator")

	_, err = execute(t, fs, "rules", "add", ".jpg")
	assert.Error(t, err, "--folder is required")

	_, err = execute(t, fs, "rules", "add", "--folder", "Misc", ".")
	assert.ErrorContains(t, err, "not an extension")

	_, err = execute(t, fs, "rules", "add", "--folder", "Misc", ".zip", "  ")
	assert.ErrorContains(t, err, "not an extension")

	_, err = execute(t, fs, "rules", "remove", "7")
	assert.ErrorContains(t, err, "invalid rule index")

	_, err = execute(t, fs, "rules", "remove", "first")
	assert.ErrorContains(t, err, "invalid rule index")

	rules, err := config.Load(fs, testConfig)
	require.NoError(t, err)
	assert.Len(t, rules, 2, "failed edits leave the file untouched")
}

func TestRulesAddCreatesConfig(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := execute(t, fs, "rules", "add", "--folder", "Music", ".mp3")
	require.NoError(t, err)

	rules, err := config.Load(fs, testConfig)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Music", rules[0].FolderName)
}

func TestLogFileFlag(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "extsort.log")

	_, err := execute(t, newTestFs(t), "--log-file", logPath, "organize", "/inbox")
	require.NoError(t, err)

	data, err := afero.ReadFile(afero.NewOsFs(), logPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "Organization complete"))
}

func TestConfirmModel(t *testing.T) {
	m := newConfirmModel("Move 2 files?")
	assert.Contains(t, m.View(), "Move 2 files? ")
	assert.Contains(t, m.View(), "move files", "key help is shown under the prompt")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.NotNil(t, cmd)
	assert.True(t, next.(confirmModel).confirmed)
	assert.Equal(t, "Move 2 files? yes\n", next.View())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, next.(confirmModel).confirmed, "enter takes the default answer, no")
	assert.True(t, next.(confirmModel).done)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)
	assert.False(t, next.(confirmModel).done)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	ok, err := confirm(strings.NewReader("y"), &out, "Proceed?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = confirm(strings.NewReader("n"), &out, "Proceed?")
	require.NoError(t, err)
	assert.False(t, ok)
}
